package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var enrollFileCmd = &cobra.Command{
	Use:   "file <image>",
	Short: "Enroll one person from a single image",
	Long: `Detect every face in the image and store the average of their descriptors
under the given name. JPEG, PNG and BMP images are accepted.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnrollFile,
}

func init() {
	enrollCmd.AddCommand(enrollFileCmd)

	enrollFileCmd.Flags().String("name", "", "Name of the person to enroll")
	enrollFileCmd.Flags().Bool("json", false, "Output as JSON")
	_ = enrollFileCmd.MarkFlagRequired("name")
}

func runEnrollFile(cmd *cobra.Command, args []string) error {
	name := mustGetString(cmd, "name")
	jsonOutput := mustGetBool(cmd, "json")

	ctx := context.Background()
	e, err := openEnrollment(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	res, err := e.pipeline.FromFile(ctx, args[0], name)
	if err != nil {
		return err
	}
	if jsonOutput {
		return outputJSON(res)
	}
	printEnrollResult(res)
	return nil
}
