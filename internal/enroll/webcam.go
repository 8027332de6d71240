package enroll

import (
	"context"

	"github.com/kozaktomas/face-attendance/internal/camera"
	"github.com/kozaktomas/face-attendance/internal/facematch"
)

// WebcamWindowTitle is the title of the capture window.
const WebcamWindowTitle = "Training - Press 'q' to exit"

// FromWebcam collects target descriptors for name from dev and stores their mean.
// Pressing the quit key or a failing camera ends collection early; whatever was
// captured up to then is still stored.
func (p *Pipeline) FromWebcam(ctx context.Context, dev camera.Device, name string, target int) (Result, error) {
	name, err := facematch.CleanIdentityName(name)
	if err != nil {
		return Result{}, err
	}

	collector := NewCollector(p.model, target)
	p.log.Infof("Starting training for %s using webcam. Please look at the camera.", name)

	stop, err := camera.Run(ctx, dev, func(ctx context.Context, jpeg []byte) ([]camera.Overlay, bool, error) {
		faces, err := collector.AddFrame(ctx, jpeg)
		for i := range faces {
			p.log.Infof("Captured encoding %d/%d for %s.", collector.Count()-len(faces)+i+1, collector.Target(), name)
		}
		return []camera.Overlay{camera.StatusOverlay(collector.Progress())}, collector.Done(), err
	}, p.log)
	if err != nil {
		return Result{Name: name}, err
	}
	if stop == camera.StopQuit {
		p.log.Info("Training interrupted by user.")
	}

	return p.Store(ctx, name, collector.Descriptors())
}
