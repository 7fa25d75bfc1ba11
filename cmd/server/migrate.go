package main

import (
	"github.com/spf13/cobra"

	"github.com/maxviazov/member-search-service/internal/migrations"
	"github.com/maxviazov/member-search-service/internal/repository"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Apply, roll back or inspect schema migrations",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(migrations.Up), string(migrations.Down), string(migrations.Status)},
	Example: `  member-search-service migrate up
  member-search-service migrate status --config /etc/members/config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := migrations.ParseDirection(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		pool, err := repository.Connect(ctx, cfg.Postgres, appLog)
		if err != nil {
			return err
		}
		defer pool.Close()
		return migrations.Run(ctx, pool, dir, appLog)
	},
}
