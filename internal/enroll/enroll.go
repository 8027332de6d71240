// Package enroll turns images of a person into one averaged face descriptor
// and stores it under the person's name.
package enroll

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/kozaktomas/face-attendance/internal/facemodel"
	"github.com/kozaktomas/face-attendance/internal/logger"
)

var (
	// ErrNoEmbeddings is returned when no descriptor was collected for an identity
	ErrNoEmbeddings = errors.New("no face embeddings collected")
	// ErrInvalidPath is returned when the enrollment source does not exist or has the wrong type
	ErrInvalidPath = errors.New("invalid file path")
	// ErrNoSubfolders is returned when a dataset folder has no person subfolders
	ErrNoSubfolders = errors.New("no subfolders found in dataset folder")
)

// Result describes one stored identity
type Result struct {
	Name        string    `json:"name"`
	Descriptors int       `json:"descriptors"`
	Overwritten bool      `json:"overwritten"`
	Embedding   []float64 `json:"-"`
}

// Pipeline runs enrollment against a face model and an embedding store
type Pipeline struct {
	model        facemodel.Model
	store        database.EmbeddingWriter
	log          *logger.Logger
	maxImageSize int
	progress     io.Writer
}

// NewPipeline creates a pipeline. Progress bars go to stderr until changed with SetProgressOutput.
func NewPipeline(model facemodel.Model, store database.EmbeddingWriter, log *logger.Logger) *Pipeline {
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{
		model:        model,
		store:        store,
		log:          log,
		maxImageSize: constants.MaxImageSize,
		progress:     os.Stderr,
	}
}

// SetProgressOutput redirects progress bars; nil disables them.
func (p *Pipeline) SetProgressOutput(w io.Writer) {
	p.progress = w
}

// DescriptorsFromImage returns one descriptor per face found in the image at path.
func (p *Pipeline) DescriptorsFromImage(ctx context.Context, path string) ([][]float64, error) {
	data, err := facemodel.LoadImageFile(path, p.maxImageSize)
	if err != nil {
		return nil, fmt.Errorf("could not read image %s: %w", path, err)
	}

	faces, err := p.model.Detect(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("detecting faces in %s: %w", path, err)
	}
	if len(faces) == 0 {
		return nil, fmt.Errorf("%s: %w", path, facemodel.ErrNoFaceDetected)
	}

	descriptors := make([][]float64, 0, len(faces))
	for _, f := range faces {
		descriptors = append(descriptors, f.Descriptor)
	}
	return descriptors, nil
}

// Store averages descriptors and saves the result under name, replacing any earlier record.
func (p *Pipeline) Store(ctx context.Context, name string, descriptors [][]float64) (Result, error) {
	name, err := facematch.CleanIdentityName(name)
	if err != nil {
		return Result{}, err
	}
	if len(descriptors) == 0 {
		return Result{Name: name}, ErrNoEmbeddings
	}

	mean, err := facematch.Mean(descriptors)
	if err != nil {
		return Result{Name: name}, fmt.Errorf("averaging descriptors for %s: %w", name, err)
	}

	exists, err := p.store.Exists(ctx, name)
	if err != nil {
		return Result{Name: name}, fmt.Errorf("checking existing encoding for %s: %w", name, err)
	}
	if exists {
		p.log.Infof("Overwriting existing encoding for %s", name)
	}

	if err := p.store.Save(ctx, name, mean); err != nil {
		return Result{Name: name}, fmt.Errorf("saving encoding for %s: %w", name, err)
	}
	p.log.Infof("Training for %s completed with %d descriptors", name, len(descriptors))

	return Result{
		Name:        name,
		Descriptors: len(descriptors),
		Overwritten: exists,
		Embedding:   mean,
	}, nil
}
