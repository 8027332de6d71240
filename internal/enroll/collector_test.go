package enroll

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"testing"
)

func encodeJPEG(t *testing.T, width int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, 4)), nil); err != nil {
		t.Fatalf("jpeg.Encode() unexpected error: %v", err)
	}
	return buf.Bytes()
}

func TestCollector(t *testing.T) {
	ctx := context.Background()
	model := newFakeModel()
	model.addImage(10, []float64{1})
	model.addImage(20, []float64{2}, []float64{3})

	c := NewCollector(model, 3)
	if c.Progress() != "Captured 0/3" {
		t.Errorf("Progress() = %q, want %q", c.Progress(), "Captured 0/3")
	}

	// empty frame
	faces, err := c.AddFrame(ctx, encodeJPEG(t, 5))
	if err != nil {
		t.Fatalf("AddFrame() unexpected error: %v", err)
	}
	if len(faces) != 0 || c.Count() != 0 {
		t.Errorf("AddFrame() on empty frame collected %d", c.Count())
	}

	if _, err := c.AddFrame(ctx, encodeJPEG(t, 10)); err != nil {
		t.Fatalf("AddFrame() unexpected error: %v", err)
	}
	if c.Done() {
		t.Error("Done() = true after 1 descriptor")
	}

	// two faces in one frame overshoot the target
	faces, err = c.AddFrame(ctx, encodeJPEG(t, 20))
	if err != nil {
		t.Fatalf("AddFrame() unexpected error: %v", err)
	}
	if len(faces) != 2 {
		t.Errorf("AddFrame() returned %d faces, want 2", len(faces))
	}
	if !c.Done() || c.Count() != 3 {
		t.Errorf("Count() = %d, Done() = %v, want 3 and true", c.Count(), c.Done())
	}

	calls := model.calls
	if _, err := c.AddFrame(ctx, encodeJPEG(t, 10)); err != nil {
		t.Fatalf("AddFrame() unexpected error: %v", err)
	}
	if model.calls != calls {
		t.Error("AddFrame() ran detection after the collector was done")
	}
	if len(c.Descriptors()) != 3 {
		t.Errorf("Descriptors() len = %d, want 3", len(c.Descriptors()))
	}
}

func TestNewCollector_MinimumTarget(t *testing.T) {
	if got := NewCollector(newFakeModel(), 0).Target(); got != 1 {
		t.Errorf("Target() = %d, want 1", got)
	}
}
