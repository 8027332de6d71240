package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kozaktomas/face-attendance/internal/models"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Face model management commands",
	Long:  `Commands for managing the dlib model files used for detection and recognition.`,
}

var modelsDownloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the dlib model files",
	Long: `Download and extract the dlib face detector, landmark predictor and face
recognition model into MODELS_DIR (default "models"). Files that already
exist are skipped.`,
	Args: cobra.NoArgs,
	RunE: runModelsDownload,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.AddCommand(modelsDownloadCmd)

	modelsDownloadCmd.Flags().String("dir", "", "Target directory (defaults to MODELS_DIR)")
	modelsDownloadCmd.Flags().Bool("json", false, "Output as JSON instead of progress bar")
}

func runModelsDownload(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")

	cfg, log := loadConfig()
	if dir := mustGetString(cmd, "dir"); dir != "" {
		cfg.Models.Dir = dir
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := models.NewDownloader(cfg.Models.Dir, log)
	if jsonOutput {
		d.SetProgressOutput(nil)
	}

	report, err := d.Download(ctx, models.DefaultFiles)
	if err != nil {
		return fmt.Errorf("downloading models: %w", err)
	}
	if jsonOutput {
		return outputJSON(report)
	}
	fmt.Printf("Models ready in %s (%d downloaded, %d already present)\n",
		cfg.Models.Dir, len(report.Downloaded), len(report.Skipped))
	return nil
}
