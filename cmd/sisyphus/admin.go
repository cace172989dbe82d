package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DaanHessen/sisyphus/internal/engine"
	"github.com/DaanHessen/sisyphus/internal/store"
	"github.com/DaanHessen/sisyphus/internal/util"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate up|down|version",
		Short:     "Manage the Postgres schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cfgFrom(cmd)
			if cfg.Backend != util.BackendPostgres {
				fmt.Fprintln(cmd.OutOrStdout(), "sqlite saves create their schema on open; nothing to migrate")
				return nil
			}
			mig, err := store.NewMigrator(cfg.DSN, cfg.MigrationsDir)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
			defer cancel()
			switch args[0] {
			case "up":
				if err := mig.Up(ctx); err != nil && err != store.ErrNoChange {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			case "down":
				if err := mig.Down(ctx); err != nil && err != store.ErrNoChange {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Migrations rolled back")
			case "version":
				v, dirty, err := mig.Version(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d dirty=%v\n", v, dirty)
			}
			return nil
		},
	}
	return cmd
}

func newExportCmd() *cobra.Command {
	var inspect bool
	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Write the current state as a compressed snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if inspect {
				h, st, err := store.ReadSnapshot(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "v%d run %d saved %s\n%s\n", h.Version, h.RunCount, h.SavedAt.Format("2006-01-02 15:04"), engine.FormatStatus(st, h.SavedAt))
				return nil
			}
			return withApp(func(cmd *cobra.Command, a *app, args []string) error {
				if err := store.WriteSnapshot(args[0], a.eng.State()); err != nil {
					return err
				}
				a.printf("exported %s\n", args[0])
				return nil
			})(cmd, args)
		},
	}
	cmd.Flags().BoolVar(&inspect, "inspect", false, "Read a snapshot instead of writing one")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "sisyphus", version)
		},
	}
}
