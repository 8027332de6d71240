// Package camera drives the capture, annotate, display loop shared by
// webcam enrollment and the attendance loop.
package camera

import (
	"context"
	"image"
	"image/color"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/logger"
)

// NoKey is returned by Device.Show when no key was pressed.
const NoKey = -1

var (
	green = color.RGBA{G: 255, A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Overlay is a box and/or text drawn over the current frame
type Overlay struct {
	Rect      image.Rectangle // empty draws text only
	Text      string
	Origin    image.Point // text baseline origin
	Color     color.RGBA
	Scale     float64
	Thickness int
}

// FaceOverlay boxes a face and writes label under it.
func FaceOverlay(rect image.Rectangle, label string) Overlay {
	return Overlay{
		Rect:      rect,
		Text:      label,
		Origin:    image.Pt(rect.Min.X, rect.Max.Y+20),
		Color:     green,
		Scale:     0.5,
		Thickness: 1,
	}
}

// StatusOverlay writes a status line in the top-left corner.
func StatusOverlay(text string) Overlay {
	return Overlay{
		Text:      text,
		Origin:    image.Pt(10, 30),
		Color:     white,
		Scale:     0.7,
		Thickness: 2,
	}
}

// Device is an open camera with a display window
type Device interface {
	// Read grabs the next frame and returns it JPEG-encoded.
	Read() ([]byte, error)
	// Show draws overlays over the last frame, displays it and
	// returns the pressed key or NoKey.
	Show(overlays []Overlay) int
	Close() error
}

// Stop tells why Run returned
type Stop int

const (
	StopDone Stop = iota
	StopQuit
	StopReadFailed
	StopCancelled
)

// FrameHandler processes one JPEG frame. done ends the loop after the frame is shown.
type FrameHandler func(ctx context.Context, jpeg []byte) (overlays []Overlay, done bool, err error)

// Run reads frames until the handler is done, the quit key is pressed, a read
// fails or ctx is cancelled. Handler errors are logged and the loop continues.
// Only cancellation returns an error.
func Run(ctx context.Context, dev Device, handle FrameHandler, log *logger.Logger) (Stop, error) {
	if log == nil {
		log = logger.Nop()
	}

	for {
		if err := ctx.Err(); err != nil {
			return StopCancelled, err
		}

		frame, err := dev.Read()
		if err != nil {
			log.Error(err, "Error accessing the camera")
			return StopReadFailed, nil
		}

		overlays, done, err := handle(ctx, frame)
		if err != nil {
			log.Error(err, "Error processing frame")
		}

		key := dev.Show(overlays)
		if done {
			return StopDone, nil
		}
		if key&0xFF == constants.QuitKey {
			return StopQuit, nil
		}
	}
}
