// Package opencv implements camera.Device with gocv.
package opencv

import (
	"bytes"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/kozaktomas/face-attendance/internal/camera"
)

// Device is a webcam plus a named display window.
type Device struct {
	capture *gocv.VideoCapture
	window  *gocv.Window
	frame   gocv.Mat
}

// Open opens the capture device and creates the window.
func Open(index int, title string) (*Device, error) {
	capture, err := gocv.VideoCaptureDevice(index)
	if err != nil {
		return nil, errors.Wrapf(err, "can not open camera %d", index)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, errors.Errorf("camera %d is not available", index)
	}

	return &Device{
		capture: capture,
		window:  gocv.NewWindow(title),
		frame:   gocv.NewMat(),
	}, nil
}

func (d *Device) Read() ([]byte, error) {
	if ok := d.capture.Read(&d.frame); !ok {
		return nil, errors.New("can not read frame")
	}
	if d.frame.Empty() {
		return nil, errors.New("empty frame")
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, d.frame)
	if err != nil {
		return nil, errors.Wrap(err, "can not encode frame")
	}
	defer buf.Close()

	return bytes.Clone(buf.GetBytes()), nil
}

func (d *Device) Show(overlays []camera.Overlay) int {
	for _, o := range overlays {
		if !o.Rect.Empty() {
			gocv.Rectangle(&d.frame, o.Rect, o.Color, 2)
		}
		if o.Text != "" {
			gocv.PutText(&d.frame, o.Text, o.Origin, gocv.FontHersheySimplex, o.Scale, o.Color, o.Thickness)
		}
	}
	d.window.IMShow(d.frame)
	return d.window.WaitKey(1)
}

// Close releases the frame, the window and the camera. The first failure is returned.
func (d *Device) Close() error {
	var first error
	keep := func(err error, what string) {
		if err != nil && first == nil {
			first = errors.Wrap(err, what)
		}
	}
	keep(d.frame.Close(), "closing frame")
	keep(d.window.Close(), "closing window")
	keep(d.capture.Close(), "closing camera")
	return first
}

var _ camera.Device = (*Device)(nil)
