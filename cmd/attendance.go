package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/spf13/cobra"
)

var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Show the attendance log",
	Long: `Print attendance records in the order they were written.

Examples:
  # Everything
  face-attendance attendance

  # One day
  face-attendance attendance --date 2024-03-05

  # Today, as JSON
  face-attendance attendance --today --json`,
	Args: cobra.NoArgs,
	RunE: runAttendance,
}

func init() {
	rootCmd.AddCommand(attendanceCmd)

	attendanceCmd.Flags().String("date", "", "Only records of this date (YYYY-MM-DD)")
	attendanceCmd.Flags().Bool("today", false, "Only records of today")
	attendanceCmd.Flags().Bool("json", false, "Output as JSON")
	attendanceCmd.MarkFlagsMutuallyExclusive("date", "today")
}

func runAttendance(cmd *cobra.Command, args []string) error {
	date := mustGetString(cmd, "date")
	jsonOutput := mustGetBool(cmd, "json")
	if mustGetBool(cmd, "today") {
		date = time.Now().Format(constants.DateLayout)
	}
	if date != "" {
		if _, err := time.Parse(constants.DateLayout, date); err != nil {
			return fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", date)
		}
	}

	ctx := context.Background()
	cfg, log := loadConfig()

	closeStorage, err := openStorage(cfg, log)
	if err != nil {
		return err
	}
	defer closeStorage()

	ledger, err := database.GetLedger(ctx)
	if err != nil {
		return fmt.Errorf("failed to get attendance ledger: %w", err)
	}
	records, err := ledger.Records(ctx, date)
	if err != nil {
		return fmt.Errorf("reading attendance records: %w", err)
	}

	if jsonOutput {
		if records == nil {
			records = []database.AttendanceRecord{}
		}
		return outputJSON(records)
	}
	if len(records) == 0 {
		fmt.Println("No attendance records.")
		return nil
	}
	fmt.Printf("%-30s %-10s %s\n", "NAME", "DATE", "TIME")
	for _, r := range records {
		fmt.Printf("%-30s %-10s %s\n", r.Name, r.Date, r.Time)
	}
	fmt.Printf("\n%d records\n", len(records))
	return nil
}
