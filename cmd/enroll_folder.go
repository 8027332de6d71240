package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var enrollFolderCmd = &cobra.Command{
	Use:   "folder <dataset>",
	Short: "Enroll everyone in a dataset folder",
	Long: `Enroll one person per immediate subfolder of the dataset folder, named after
the subfolder. Files ending in jpg, jpeg or png are used; unreadable images and
people without any detected face are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnrollFolder,
}

func init() {
	enrollCmd.AddCommand(enrollFolderCmd)

	enrollFolderCmd.Flags().Bool("json", false, "Output as JSON instead of progress bar")
}

func runEnrollFolder(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := openEnrollment(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	if jsonOutput {
		e.pipeline.SetProgressOutput(nil)
	}

	summary, err := e.pipeline.FromFolder(ctx, args[0])
	if err != nil {
		return err
	}
	if jsonOutput {
		return outputJSON(summary)
	}
	printFolderSummary(summary)
	return nil
}
