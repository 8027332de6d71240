package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kozaktomas/face-attendance/internal/camera"
	"github.com/kozaktomas/face-attendance/internal/camera/opencv"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/liveness"
	"github.com/kozaktomas/face-attendance/internal/recognition"
	"github.com/spf13/cobra"
)

const attendWindowTitle = "Face Attendance System"

var attendCmd = &cobra.Command{
	Use:   "attend",
	Short: "Run the webcam attendance loop",
	Long: `Watch the webcam, recognize enrolled people and mark each of them present
once per day. Attendance is only recorded after a blink and a head movement
between consecutive frames. Press 'q' in the window or Ctrl+C to stop.

Examples:
  face-attendance attend

  # Stricter matching with the approximate index
  MATCHER=hnsw face-attendance attend --threshold 0.5`,
	Args: cobra.NoArgs,
	RunE: runAttend,
}

func init() {
	rootCmd.AddCommand(attendCmd)

	attendCmd.Flags().Float64("threshold", 0, "Maximum match distance, exclusive (defaults to MATCH_THRESHOLD)")
	attendCmd.Flags().Int("device", -1, "Camera device index (defaults to CAMERA_DEVICE)")
}

func runAttend(cmd *cobra.Command, args []string) error {
	cfg, log := loadConfig()
	if threshold := mustGetFloat64(cmd, "threshold"); threshold > 0 {
		cfg.Matching.Threshold = threshold
	}
	if device := mustGetInt(cmd, "device"); device >= 0 {
		cfg.Camera.Device = device
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	closeStorage, err := openStorage(cfg, log)
	if err != nil {
		return err
	}
	defer closeStorage()

	reader, err := database.GetEmbeddingReader(ctx)
	if err != nil {
		return fmt.Errorf("failed to get embedding reader: %w", err)
	}
	ledger, err := database.GetLedger(ctx)
	if err != nil {
		return fmt.Errorf("failed to get attendance ledger: %w", err)
	}

	model, err := openModel(cfg)
	if err != nil {
		return err
	}
	defer model.Close()

	dev, err := opencv.Open(cfg.Camera.Device, attendWindowTitle)
	if err != nil {
		return err
	}
	defer func() {
		if err := dev.Close(); err != nil {
			log.Error(err, "Closing camera")
		}
	}()

	matcher, err := database.LoadMatcher(ctx, reader, cfg.Matching.UseHNSW())
	if err != nil {
		return fmt.Errorf("loading identities: %w", err)
	}
	if matcher.Len() == 0 {
		log.Warn("No enrolled identities, every face will be Unknown")
	} else {
		log.Infof("Loaded %d identities", matcher.Len())
	}

	detector := liveness.NewDetector(cfg.Liveness.EARThreshold, cfg.Liveness.NoseMovementPx)
	session := recognition.NewSession(model, matcher, ledger, detector, cfg.Matching.Threshold, log)

	reason, err := camera.Run(ctx, dev, func(ctx context.Context, jpeg []byte) ([]camera.Overlay, bool, error) {
		res, err := session.ProcessFrame(ctx, jpeg)
		if err != nil || !res.Recognized {
			return nil, false, err
		}
		if res.Outcome == recognition.OutcomeMarked {
			fmt.Printf("%s marked present at %s %s\n", res.Record.Name, res.Record.Date, res.Record.Time)
		}
		return []camera.Overlay{camera.FaceOverlay(res.Rect, res.Label())}, false, nil
	}, log)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if reason == camera.StopQuit || reason == camera.StopCancelled {
		fmt.Println("Exiting attendance system.")
	}
	return nil
}
