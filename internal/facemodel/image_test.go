package facemodel

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() unexpected error: %v", err)
	}
	return buf.Bytes()
}

func TestPrepareImage(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		height     int
		maxSize    int
		wantWidth  int
		wantHeight int
	}{
		{"small image keeps size", 40, 30, 100, 40, 30},
		{"landscape downscaled", 200, 100, 100, 100, 50},
		{"portrait downscaled", 100, 400, 200, 50, 200},
		{"square at limit", 64, 64, 64, 64, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := PrepareImage(encodePNG(t, tt.width, tt.height), tt.maxSize)
			if err != nil {
				t.Fatalf("PrepareImage() unexpected error: %v", err)
			}

			cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("output is not a JPEG: %v", err)
			}
			if cfg.Width != tt.wantWidth || cfg.Height != tt.wantHeight {
				t.Errorf("PrepareImage() size = %dx%d, want %dx%d", cfg.Width, cfg.Height, tt.wantWidth, tt.wantHeight)
			}
		})
	}
}

func TestPrepareImage_InvalidData(t *testing.T) {
	if _, err := PrepareImage([]byte("definitely not an image"), 100); err == nil {
		t.Error("PrepareImage() expected error for invalid data")
	}
}

func TestLoadImageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "face.png")
	if err := os.WriteFile(path, encodePNG(t, 20, 10), 0o644); err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}

	out, err := LoadImageFile(path, 100)
	if err != nil {
		t.Fatalf("LoadImageFile() unexpected error: %v", err)
	}
	if _, err := jpeg.DecodeConfig(bytes.NewReader(out)); err != nil {
		t.Errorf("output is not a JPEG: %v", err)
	}

	if _, err := LoadImageFile(filepath.Join(t.TempDir(), "missing.png"), 100); err == nil {
		t.Error("LoadImageFile() expected error for missing file")
	}
}

func TestFace_HasLandmarks(t *testing.T) {
	if (Face{Landmarks: make([]image.Point, 68)}).HasLandmarks() != true {
		t.Error("HasLandmarks() = false for 68 points, want true")
	}
	if (Face{Landmarks: make([]image.Point, 5)}).HasLandmarks() != false {
		t.Error("HasLandmarks() = true for 5 points, want false")
	}
}
