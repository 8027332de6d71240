package cmd

import (
	"context"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/kozaktomas/face-attendance/internal/camera/opencv"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/enroll"
	"github.com/kozaktomas/face-attendance/internal/facemodel/dlib"
	"github.com/kozaktomas/face-attendance/internal/logger"
	"github.com/spf13/cobra"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll",
	Short: "Enroll people from the webcam, an image or a dataset folder",
	Long: `Enroll known people. Each detected face contributes one descriptor and the
stored identity is their average. Enrolling an existing name replaces it.

Without a subcommand an interactive menu asks for the training method.

Examples:
  # Interactive menu
  face-attendance enroll

  # Capture 10 descriptors from the webcam
  face-attendance enroll webcam --name "Alice"

  # Single image
  face-attendance enroll file --name "Alice" photos/alice.jpg

  # One subfolder per person
  face-attendance enroll folder dataset/`,
	Args: cobra.NoArgs,
	RunE: runEnrollMenu,
}

func init() {
	rootCmd.AddCommand(enrollCmd)
}

// enrollment holds the resources shared by every enrollment mode.
type enrollment struct {
	cfg          *config.Config
	log          *logger.Logger
	model        *dlib.Model
	pipeline     *enroll.Pipeline
	closeStorage func()
}

func openEnrollment(ctx context.Context) (*enrollment, error) {
	cfg, log := loadConfig()

	closeStorage, err := openStorage(cfg, log)
	if err != nil {
		return nil, err
	}
	store, err := database.GetEmbeddingWriter(ctx)
	if err != nil {
		closeStorage()
		return nil, fmt.Errorf("failed to get embedding writer: %w", err)
	}

	model, err := openModel(cfg)
	if err != nil {
		closeStorage()
		return nil, err
	}

	return &enrollment{
		cfg:          cfg,
		log:          log,
		model:        model,
		pipeline:     enroll.NewPipeline(model, store, log),
		closeStorage: closeStorage,
	}, nil
}

func (e *enrollment) Close() {
	e.model.Close()
	e.closeStorage()
}

// webcam opens the capture window and enrolls name from it.
func (e *enrollment) webcam(ctx context.Context, name string) (enroll.Result, error) {
	dev, err := opencv.Open(e.cfg.Camera.Device, enroll.WebcamWindowTitle)
	if err != nil {
		return enroll.Result{}, err
	}
	defer func() {
		if err := dev.Close(); err != nil {
			e.log.Error(err, "Closing camera")
		}
	}()
	return e.pipeline.FromWebcam(ctx, dev, name, e.cfg.Enrollment.WebcamCaptures)
}

func printEnrollResult(res enroll.Result) {
	fmt.Printf("Training for %s completed and saved (%d descriptors", res.Name, res.Descriptors)
	if res.Overwritten {
		fmt.Print(", replaced previous encoding")
	}
	fmt.Println(").")
}

func printFolderSummary(summary *enroll.FolderSummary) {
	fmt.Printf("\nEnrolled %d people from %d images (%d unreadable or without faces)\n",
		len(summary.Enrolled), summary.Images, summary.Failed)
	for _, res := range summary.Enrolled {
		fmt.Printf("  %-30s %d descriptors\n", res.Name, res.Descriptors)
	}
	if len(summary.Skipped) > 0 {
		fmt.Println("\nSkipped:")
		for _, name := range slices.Sorted(maps.Keys(summary.Skipped)) {
			fmt.Printf("  %-30s %s\n", name, summary.Skipped[name])
		}
	}
}

func runEnrollMenu(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := openEnrollment(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	return enroll.RunMenu(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), enroll.MenuActions{
		Webcam: func(ctx context.Context, name string) error {
			res, err := e.webcam(ctx, name)
			if err != nil {
				return err
			}
			printEnrollResult(res)
			return nil
		},
		File: func(ctx context.Context, path, name string) error {
			res, err := e.pipeline.FromFile(ctx, path, name)
			if err != nil {
				return err
			}
			printEnrollResult(res)
			return nil
		},
		Folder: func(ctx context.Context, path string) error {
			summary, err := e.pipeline.FromFolder(ctx, path)
			if err != nil {
				return err
			}
			printFolderSummary(summary)
			return nil
		},
	}, e.log)
}
