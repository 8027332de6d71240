package enroll

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/kozaktomas/face-attendance/internal/facemodel"
)

// fakeModel returns the faces registered for the image width, which survives
// re-encoding unchanged for small images.
type fakeModel struct {
	byWidth map[int][]facemodel.Face
	err     error
	calls   int
}

func newFakeModel() *fakeModel {
	return &fakeModel{byWidth: make(map[int][]facemodel.Face)}
}

func (m *fakeModel) Detect(_ context.Context, data []byte) ([]facemodel.Face, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return m.byWidth[cfg.Width], nil
}

func (m *fakeModel) addImage(width int, descriptors ...[]float64) {
	for _, d := range descriptors {
		m.byWidth[width] = append(m.byWidth[width], facemodel.Face{
			Rect:       image.Rect(0, 0, 5, 5),
			Descriptor: d,
		})
	}
}

// writePNG writes a width x 8 PNG to dir/name and returns its path.
func writePNG(t *testing.T, dir, name string, width int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, 8))
	for x := range width {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() unexpected error: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll() unexpected error: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}
	return path
}
