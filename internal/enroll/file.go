package enroll

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FromFile enrolls name from a single image.
func (p *Pipeline) FromFile(ctx context.Context, path, name string) (Result, error) {
	resolved, err := filepath.Abs(path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}
	p.log.Debugf("Resolved path: %s", resolved)

	info, err := os.Stat(resolved)
	if err != nil || !info.Mode().IsRegular() {
		return Result{}, fmt.Errorf("%w: %s", ErrInvalidPath, resolved)
	}

	descriptors, err := p.DescriptorsFromImage(ctx, resolved)
	if err != nil {
		p.log.Error(err, "No encodings captured")
		return Result{}, fmt.Errorf("%w: %w", ErrNoEmbeddings, err)
	}
	p.log.Infof("Captured %d encoding(s) from image: %s", len(descriptors), filepath.Base(resolved))

	return p.Store(ctx, name, descriptors)
}
