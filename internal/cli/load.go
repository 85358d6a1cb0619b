package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"neowatch/internal/clients"
	"neowatch/internal/models"
	"neowatch/internal/repository"
	"neowatch/internal/service"
	"neowatch/pkg/database"

	"github.com/spf13/cobra"
)

func newLoadCmd() *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load flybys from the NASA NeoWs feed",
		Long: `Fetch the NeoWs feed for a date window and reconcile it into the database.
Dates use YYYY-MM-DD. Without flags the window is today through today plus the
configured number of days.

Examples:
  neoctl load
  neoctl load --start 2024-01-01 --end 2024-01-07`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer log.Sync()

			window, err := clients.ParseWindow(start, end, time.Now(), cfg.NEO.WindowDays, cfg.Location())
			if err != nil {
				return err
			}

			db, err := database.Connect(database.Config{
				Host:     cfg.DB.Host,
				Port:     cfg.DB.Port,
				User:     cfg.DB.User,
				Password: cfg.DB.Password,
				DBName:   cfg.DB.DBName,
				SSLMode:  cfg.DB.SSLMode,
				Debug:    cfg.App.Debug,
			})
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.Migrate(db); err != nil {
				return err
			}

			if cfg.NEO.APIKey == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Warning: NASA_API_KEY is not set, using DEMO_KEY")
			}

			ingest := service.NewIngestService(
				repository.NewAsteroidRepository(db),
				repository.NewFlybyRepository(db),
				repository.NewIngestionRunRepository(db),
				clients.NewNEOClient(clients.NEOConfig{
					APIKey:        cfg.NEO.APIKey,
					FeedURL:       cfg.NEO.FeedURL,
					Timeout:       cfg.NEO.Timeout,
					RetryAttempts: uint(cfg.NEO.RetryAttempts),
					RetryDelay:    cfg.NEO.RetryDelay,
				}),
				cfg.Location(),
				log,
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runLoad(ctx, cmd.OutOrStdout(), ingest, window)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first day of the window (YYYY-MM-DD), default today")
	cmd.Flags().StringVar(&end, "end", "", "last day of the window (YYYY-MM-DD), default start plus NASA_NEO_WINDOW_DAYS")

	return cmd
}

func runLoad(ctx context.Context, out io.Writer, ingest service.IngestService, window clients.Window) error {
	fmt.Fprintf(out, "Requesting NEO feed: %s...\n", window)

	result, err := ingest.FetchAndStore(ctx, window, models.TriggerCLI)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	for _, id := range result.SkippedIDs {
		fmt.Fprintf(out, "Warning: skipped record %s\n", id)
	}

	fmt.Fprintf(out, "Success: %d asteroids and %d flybys created\n", result.AsteroidsCreated, result.FlybysCreated)
	fmt.Fprintf(out, "Processed asteroids: %d (skipped: %d)\n", result.Processed, result.Skipped)
	return nil
}
