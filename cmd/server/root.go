package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/maxviazov/member-search-service/internal/config"
	"github.com/maxviazov/member-search-service/internal/logger"
)

var (
	// set during PersistentPreRunE
	cfg    *config.Config
	appLog zerolog.Logger

	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "member-search-service",
	Short: "Filtered member search over PostgreSQL",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("config loading failed: %w", err)
		}
		appLog, err = logger.New(&cfg.Logger)
		if err != nil {
			return fmt.Errorf("logger initialization failed: %w", err)
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "path to the YAML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}
