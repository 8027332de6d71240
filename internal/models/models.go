// Package models downloads and unpacks the dlib model files used by the face model.
package models

import (
	"compress/bzip2"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/kozaktomas/face-attendance/internal/logger"
)

const baseURL = "http://dlib.net/files/"

// File is one model archive and the name it is installed under
type File struct {
	URL    string
	Target string
}

// ArchiveName returns the file name of the downloaded archive.
func (f File) ArchiveName() string {
	return f.URL[strings.LastIndex(f.URL, "/")+1:]
}

// DefaultFiles are the models the dlib adapter loads. The 68-point landmark
// predictor is installed under the 5-point predictor's file name because that
// is the name the recognizer opens.
var DefaultFiles = []File{
	{URL: baseURL + "shape_predictor_68_face_landmarks.dat.bz2", Target: "shape_predictor_5_face_landmarks.dat"},
	{URL: baseURL + "dlib_face_recognition_resnet_model_v1.dat.bz2", Target: "dlib_face_recognition_resnet_model_v1.dat"},
	{URL: baseURL + "mmod_human_face_detector.dat.bz2", Target: "mmod_human_face_detector.dat"},
}

// ErrMissingModels is returned by Verify when model files are absent
var ErrMissingModels = errors.New("missing model files")

// Missing returns the targets of files not present in dir.
func Missing(dir string, files []File) []string {
	var missing []string
	for _, f := range files {
		if _, err := os.Stat(filepath.Join(dir, f.Target)); err != nil {
			missing = append(missing, f.Target)
		}
	}
	return missing
}

// Verify fails when any default model file is missing from dir.
func Verify(dir string) error {
	if missing := Missing(dir, DefaultFiles); len(missing) > 0 {
		return fmt.Errorf("%w in %s: %s (run `face-attendance models download`)",
			ErrMissingModels, dir, strings.Join(missing, ", "))
	}
	return nil
}

// Downloader fetches model archives into a directory
type Downloader struct {
	dir      string
	client   *http.Client
	log      *logger.Logger
	progress io.Writer
}

// NewDownloader creates a downloader writing into dir with progress bars on stderr.
func NewDownloader(dir string, log *logger.Logger) *Downloader {
	if log == nil {
		log = logger.Nop()
	}
	return &Downloader{
		dir:      dir,
		client:   &http.Client{Timeout: 30 * time.Minute},
		log:      log,
		progress: os.Stderr,
	}
}

// SetProgressOutput redirects progress bars; nil disables them.
func (d *Downloader) SetProgressOutput(w io.Writer) {
	d.progress = w
}

// SetHTTPClient replaces the HTTP client.
func (d *Downloader) SetHTTPClient(c *http.Client) {
	d.client = c
}

// Report lists what a Download call did
type Report struct {
	Downloaded []string `json:"downloaded"`
	Skipped    []string `json:"skipped"`
}

// Download fetches and extracts every file whose target does not exist yet.
func (d *Downloader) Download(ctx context.Context, files []File) (Report, error) {
	var report Report
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return report, fmt.Errorf("creating models directory: %w", err)
	}

	for _, f := range files {
		target := filepath.Join(d.dir, f.Target)
		if _, err := os.Stat(target); err == nil {
			d.log.Infof("%s already exists, skipping download", f.Target)
			report.Skipped = append(report.Skipped, f.Target)
			continue
		}

		archive := filepath.Join(d.dir, f.ArchiveName())
		if err := d.fetch(ctx, f.URL, archive); err != nil {
			_ = os.Remove(archive)
			return report, err
		}
		if err := extract(archive, target); err != nil {
			return report, err
		}
		if err := os.Remove(archive); err != nil {
			d.log.Warnf("Could not remove %s: %v", archive, err)
		}
		d.log.Infof("Extracted %s", target)
		report.Downloaded = append(report.Downloaded, f.Target)
	}
	return report, nil
}

func (d *Downloader) fetch(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading %s: unexpected status %s", url, resp.Status)
	}

	out, err := os.Create(dest) //nolint:gosec // dest is inside the models directory
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	defer out.Close()

	var w io.Writer = out
	if d.progress != nil {
		bar := progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetWriter(d.progress),
			progressbar.OptionSetDescription("Downloading "+filepath.Base(dest)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionFullWidth(),
			progressbar.OptionSetRenderBlankState(true),
		)
		defer func() { _ = bar.Finish() }()
		w = io.MultiWriter(out, bar)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("downloading %s: %w", url, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return nil
}

// extract decompresses a bz2 archive into target through a temp file.
func extract(archive, target string) error {
	in, err := os.Open(archive) //nolint:gosec // archive is inside the models directory
	if err != nil {
		return fmt.Errorf("opening %s: %w", archive, err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(target), ".extract-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, bzip2.NewReader(in)); err != nil {
		tmp.Close()
		return fmt.Errorf("extracting %s: %w", filepath.Base(archive), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("installing %s: %w", filepath.Base(target), err)
	}
	return nil
}
