package enroll

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/kozaktomas/face-attendance/internal/constants"
)

// FolderSummary reports the outcome of a dataset folder enrollment
type FolderSummary struct {
	Enrolled []Result `json:"enrolled"`
	// Skipped maps person name to the reason nothing was stored
	Skipped map[string]string `json:"skipped"`
	Images  int               `json:"images"`
	Failed  int               `json:"failed_images"`
}

type personImages struct {
	name   string
	images []string
}

// IsImageFile reports whether name ends in one of the enrollment image extensions.
func IsImageFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range constants.ImageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var images []string
	for _, e := range entries {
		if e.IsDir() || !IsImageFile(e.Name()) {
			continue
		}
		images = append(images, filepath.Join(dir, e.Name()))
	}
	return images, nil
}

// FromFolder enrolls every immediate subfolder of root as a person named after it.
func (p *Pipeline) FromFolder(ctx context.Context, root string) (*FolderSummary, error) {
	resolved, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPath, root)
	}
	p.log.Infof("Processing dataset folder: %s", resolved)

	info, err := os.Stat(resolved)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a folder", ErrInvalidPath, resolved)
	}

	entries, err := os.ReadDir(resolved)
	if err != nil {
		return nil, fmt.Errorf("reading dataset folder: %w", err)
	}

	summary := &FolderSummary{Skipped: make(map[string]string)}
	var people []personImages
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		images, err := listImages(filepath.Join(resolved, e.Name()))
		if err != nil {
			p.log.Errorf(err, "Could not list images for %s", e.Name())
			summary.Skipped[e.Name()] = "unreadable folder"
			continue
		}
		people = append(people, personImages{name: e.Name(), images: images})
		summary.Images += len(images)
	}
	if len(people) == 0 && len(summary.Skipped) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSubfolders, resolved)
	}
	slices.SortFunc(people, func(a, b personImages) int { return strings.Compare(a.name, b.name) })

	bar := p.newBar(summary.Images)
	for _, person := range people {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		p.log.Infof("Processing person: %s", person.name)
		if len(person.images) == 0 {
			p.log.Warnf("No valid images found for %s", person.name)
			summary.Skipped[person.name] = "no valid images"
			continue
		}

		var descriptors [][]float64
		for _, img := range person.images {
			d, err := p.DescriptorsFromImage(ctx, img)
			if bar != nil {
				_ = bar.Add(1)
			}
			if err != nil {
				if ctx.Err() != nil {
					return summary, ctx.Err()
				}
				p.log.Warnf("Skipping image: %v", err)
				summary.Failed++
				continue
			}
			descriptors = append(descriptors, d...)
		}

		res, err := p.Store(ctx, person.name, descriptors)
		switch {
		case errors.Is(err, ErrNoEmbeddings):
			p.log.Warnf("No faces captured for %s", person.name)
			summary.Skipped[person.name] = "no faces detected"
		case err != nil:
			p.log.Errorf(err, "Failed to store encoding for %s", person.name)
			summary.Skipped[person.name] = err.Error()
		default:
			summary.Enrolled = append(summary.Enrolled, res)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	return summary, nil
}

func (p *Pipeline) newBar(total int) *progressbar.ProgressBar {
	if p.progress == nil || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.progress),
		progressbar.OptionSetDescription("Enrolling faces"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("images"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)
}
