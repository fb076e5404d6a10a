package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"drimer.pl/drimain/internal/config"
	"drimer.pl/drimain/internal/migrate"
	"drimer.pl/drimain/internal/obs"
	"drimer.pl/drimain/internal/store/pg"
	"drimer.pl/drimain/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema and reference data",
}

func init() {
	for _, c := range []*cobra.Command{
		{Use: "up", Short: "Apply pending migrations", RunE: withManager(func(cmd *cobra.Command, m *migrate.Manager) error {
			applied, err := m.Up(cmd.Context())
			printNames(cmd, "applied", applied)
			return err
		})},
		{Use: "down", Short: "Revert the latest migration", RunE: withManager(func(cmd *cobra.Command, m *migrate.Manager) error {
			name, err := m.Down(cmd.Context())
			if err != nil {
				return err
			}
			printNames(cmd, "reverted", []string{name})
			return nil
		})},
		{Use: "seed", Short: "Load reference data", RunE: withManager(func(cmd *cobra.Command, m *migrate.Manager) error {
			applied, err := m.Seed(cmd.Context())
			printNames(cmd, "seeded", applied)
			return err
		})},
		{Use: "status", Short: "List applied and pending migrations", RunE: withManager(func(cmd *cobra.Command, m *migrate.Manager) error {
			entries, err := m.Status(cmd.Context())
			if err != nil {
				return err
			}
			for _, e := range entries {
				state := "pending"
				if e.Applied {
					state = e.AppliedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.Name, state)
			}
			return nil
		})},
	} {
		migrateCmd.AddCommand(c)
	}
}

func printNames(cmd *cobra.Command, verb string, names []string) {
	if len(names) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "nothing %s\n", verb)
		return
	}
	for _, n := range names {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, n)
	}
}

func withManager(fn func(*cobra.Command, *migrate.Manager) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		store, cfg, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		log, err := obs.NewLogger(cfg.LogConfig())
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		m := migrate.NewManager(store.DB(), migrations.FS, migrations.Dir, migrations.SeedsDir, migrate.WithLogger(log))
		return fn(cmd, m)
	}
}

func openStore() (*pg.Store, config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cfg, err
	}
	if cfg.DatabaseDSN == "" {
		return nil, cfg, errors.New("database_dsn is required (DRIMAIN_DATABASE_DSN)")
	}
	store, err := pg.Open(cfg.DatabaseDSN)
	return store, cfg, err
}
