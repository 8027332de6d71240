package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the attendance report server",
	Long: `Start a read-only JSON API over the enrolled identities and the attendance
log. It never records attendance, so it can run next to the attend command.

Endpoints:
  GET /api/v1/health
  GET /api/v1/config
  GET /api/v1/identities[?q=name]
  GET /api/v1/attendance[?date=YYYY-MM-DD]
  GET /api/v1/attendance/{name}/today`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (defaults to WEB_PORT)")
	serveCmd.Flags().String("host", "", "Host to bind to (defaults to WEB_HOST)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log := loadConfig()
	if port := mustGetInt(cmd, "port"); port > 0 {
		cfg.Web.Port = port
	}
	if host := mustGetString(cmd, "host"); host != "" {
		cfg.Web.Host = host
	}

	closeStorage, err := openStorage(cfg, log)
	if err != nil {
		return err
	}
	defer closeStorage()

	ctx := context.Background()
	reader, err := database.GetEmbeddingReader(ctx)
	if err != nil {
		return fmt.Errorf("failed to get embedding reader: %w", err)
	}
	ledger, err := database.GetLedger(ctx)
	if err != nil {
		return fmt.Errorf("failed to get attendance ledger: %w", err)
	}

	server := web.NewServer(cfg, reader, ledger, log)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error(err, "Error during shutdown")
		}
	}()

	fmt.Printf("Starting Face Attendance report server on http://%s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
