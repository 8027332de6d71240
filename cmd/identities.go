package cmd

import (
	"context"
	"fmt"

	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/spf13/cobra"
)

var identitiesCmd = &cobra.Command{
	Use:   "identities",
	Short: "List enrolled people",
	Args:  cobra.NoArgs,
	RunE:  runIdentities,
}

func init() {
	rootCmd.AddCommand(identitiesCmd)

	identitiesCmd.Flags().Bool("json", false, "Output as JSON")
}

// IdentityOutput is one enrolled person in JSON output
type IdentityOutput struct {
	Name       string `json:"name"`
	Dimensions int    `json:"dimensions"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

func runIdentities(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")

	ctx := context.Background()
	cfg, log := loadConfig()

	closeStorage, err := openStorage(cfg, log)
	if err != nil {
		return err
	}
	defer closeStorage()

	reader, err := database.GetEmbeddingReader(ctx)
	if err != nil {
		return fmt.Errorf("failed to get embedding reader: %w", err)
	}
	identities, err := reader.List(ctx)
	if err != nil {
		return fmt.Errorf("listing identities: %w", err)
	}

	out := make([]IdentityOutput, 0, len(identities))
	for _, id := range identities {
		item := IdentityOutput{Name: id.Name, Dimensions: len(id.Embedding)}
		if !id.UpdatedAt.IsZero() {
			item.UpdatedAt = id.UpdatedAt.Format("2006-01-02 15:04:05")
		}
		out = append(out, item)
	}

	if jsonOutput {
		return outputJSON(out)
	}
	if len(out) == 0 {
		fmt.Println("No identities enrolled.")
		return nil
	}
	fmt.Printf("%-30s %-20s %s\n", "NAME", "UPDATED", "DIMS")
	for _, item := range out {
		fmt.Printf("%-30s %-20s %d\n", item.Name, item.UpdatedAt, item.Dimensions)
	}
	fmt.Printf("\n%d identities\n", len(out))
	return nil
}
