package enroll

import (
	"context"
	"fmt"

	"github.com/kozaktomas/face-attendance/internal/facemodel"
)

// Collector accumulates descriptors from live frames until a target count is reached.
// Every face in a frame contributes, so the final count may overshoot the target.
type Collector struct {
	model       facemodel.Model
	target      int
	descriptors [][]float64
}

// NewCollector creates a collector that is done after target descriptors.
func NewCollector(model facemodel.Model, target int) *Collector {
	return &Collector{model: model, target: max(target, 1)}
}

// AddFrame detects faces in a JPEG frame and keeps their descriptors.
// The detected faces are returned for drawing.
func (c *Collector) AddFrame(ctx context.Context, jpeg []byte) ([]facemodel.Face, error) {
	if c.Done() {
		return nil, nil
	}
	faces, err := c.model.Detect(ctx, jpeg)
	if err != nil {
		return nil, fmt.Errorf("detecting faces: %w", err)
	}
	for _, f := range faces {
		c.descriptors = append(c.descriptors, f.Descriptor)
	}
	return faces, nil
}

func (c *Collector) Done() bool {
	return len(c.descriptors) >= c.target
}

func (c *Collector) Count() int {
	return len(c.descriptors)
}

func (c *Collector) Target() int {
	return c.target
}

// Progress is the status line shown on the capture window.
func (c *Collector) Progress() string {
	return fmt.Sprintf("Captured %d/%d", len(c.descriptors), c.target)
}

func (c *Collector) Descriptors() [][]float64 {
	return c.descriptors
}
