package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var enrollWebcamCmd = &cobra.Command{
	Use:   "webcam",
	Short: "Enroll one person from the webcam",
	Long: `Capture face descriptors from the webcam until WEBCAM_CAPTURES (default 10)
are collected, then store their average. Press 'q' in the window to stop early;
whatever was captured is still stored.`,
	Args: cobra.NoArgs,
	RunE: runEnrollWebcam,
}

func init() {
	enrollCmd.AddCommand(enrollWebcamCmd)

	enrollWebcamCmd.Flags().String("name", "", "Name of the person to enroll")
	enrollWebcamCmd.Flags().Int("captures", 0, "Descriptors to collect (defaults to WEBCAM_CAPTURES)")
	enrollWebcamCmd.Flags().Bool("json", false, "Output as JSON")
	_ = enrollWebcamCmd.MarkFlagRequired("name")
}

func runEnrollWebcam(cmd *cobra.Command, args []string) error {
	name := mustGetString(cmd, "name")
	captures := mustGetInt(cmd, "captures")
	jsonOutput := mustGetBool(cmd, "json")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := openEnrollment(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	if captures > 0 {
		e.cfg.Enrollment.WebcamCaptures = captures
	}

	res, err := e.webcam(ctx, name)
	if err != nil {
		return err
	}
	if jsonOutput {
		return outputJSON(res)
	}
	printEnrollResult(res)
	return nil
}
