// Package facemodel defines the boundary to the pretrained face pipeline:
// detection, 68-point landmarks and the 128-d descriptor.
package facemodel

import (
	"context"
	"errors"
	"image"

	"github.com/kozaktomas/face-attendance/internal/constants"
)

// ErrNoFaceDetected is returned when an image contains no detectable face
var ErrNoFaceDetected = errors.New("no face detected")

// Face is one detected face
type Face struct {
	Rect       image.Rectangle
	Descriptor []float64
	Landmarks  []image.Point
}

// HasLandmarks reports whether the face carries a full 68-point landmark set.
func (f Face) HasLandmarks() bool {
	return len(f.Landmarks) == constants.LandmarkCount
}

// Model detects faces in a JPEG-encoded image.
// Faces are returned in detection order.
type Model interface {
	Detect(ctx context.Context, jpeg []byte) ([]Face, error)
}
