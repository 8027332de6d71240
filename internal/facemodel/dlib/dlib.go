// Package dlib adapts github.com/Kagami/go-face to facemodel.Model.
//
// go-face loads its landmark predictor from shape_predictor_5_face_landmarks.dat.
// `face-attendance models download` installs dlib's 68-point predictor under
// that file name; dlib's face chip extraction accepts either point layout, so
// descriptors stay valid and Shapes carries all 68 landmarks.
package dlib

import (
	"context"
	"fmt"
	"image"
	"sync"

	face "github.com/Kagami/go-face"

	"github.com/kozaktomas/face-attendance/internal/facemodel"
)

// Model runs dlib's HOG detector, landmark predictor and ResNet descriptor.
type Model struct {
	mu  sync.Mutex
	rec *face.Recognizer
}

// New loads the model files from modelsDir.
func New(modelsDir string) (*Model, error) {
	rec, err := face.NewRecognizer(modelsDir)
	if err != nil {
		return nil, fmt.Errorf("loading dlib models from %s: %w", modelsDir, err)
	}
	return &Model{rec: rec}, nil
}

// Detect implements facemodel.Model. The input must be JPEG.
func (m *Model) Detect(ctx context.Context, jpeg []byte) ([]facemodel.Face, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The recognizer is not safe for concurrent use.
	m.mu.Lock()
	faces, err := m.rec.Recognize(jpeg)
	m.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("recognizing faces: %w", err)
	}

	out := make([]facemodel.Face, 0, len(faces))
	for _, f := range faces {
		descriptor := make([]float64, len(f.Descriptor))
		for i, v := range f.Descriptor {
			descriptor[i] = float64(v)
		}
		out = append(out, facemodel.Face{
			Rect:       f.Rectangle,
			Descriptor: descriptor,
			Landmarks:  append([]image.Point(nil), f.Shapes...),
		})
	}
	return out, nil
}

func (m *Model) Close() {
	m.rec.Close()
}

var _ facemodel.Model = (*Model)(nil)
