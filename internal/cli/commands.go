package cli

import (
	"fmt"
	"os"

	"neowatch/internal/config"
	"neowatch/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "neoctl",
	Short: "neoctl - operate the neowatch flyby store",
	Long: `neoctl loads near-Earth-object flybys from the NASA NeoWs feed into the
neowatch database and manages the users that own watchlists.`,
}

func init() {
	rootCmd.AddCommand(newLoadCmd())
	rootCmd.AddCommand(newUserCmd())
}

// Execute runs the root command and exits with status 1 on any error.
func Execute() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads .env, the environment and validates the result.
func loadConfig() (*config.Config, logger.Logger, error) {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return cfg, logger.New(cfg.Log.Level, cfg.Log.Pretty), nil
}
