package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/DaanHessen/sisyphus/internal/util"
)

type cfgKey struct{}

func cfgFrom(cmd *cobra.Command) util.Config {
	if c, ok := cmd.Context().Value(cfgKey{}).(util.Config); ok {
		return c
	}
	return util.Config{}
}

func newRootCmd() *cobra.Command {
	var (
		backend, dsn, vault, seed, theme, save string
		quiet                                  bool
	)
	root := &cobra.Command{
		Use:           "sisyphus",
		Short:         "A roguelike that keeps your to-do list honest",
		Long:          "Sisyphus turns quests with deadlines into HP, XP and gold. Miss enough deadlines and the run ends.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := util.Load()
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if f.Changed("backend") {
				cfg.Backend = backend
			}
			if f.Changed("dsn") {
				cfg.DSN = dsn
				if !f.Changed("backend") {
					cfg.Backend = util.BackendPostgres
				}
			}
			if f.Changed("vault") {
				cfg.Vault = vault
			}
			if f.Changed("seed") {
				cfg.Seed = seed
			}
			if f.Changed("theme") {
				cfg.Theme = theme
			}
			if f.Changed("save") {
				cfg.SaveName = save
			}
			if f.Changed("quiet") {
				cfg.Quiet = quiet
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, cfgKey{}, cfg))
			return nil
		},
	}
	root.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&backend, "backend", util.BackendSQLite, "Save backend (sqlite|postgres)")
	pf.StringVar(&dsn, "dsn", "", "PostgreSQL DSN (implies --backend postgres)")
	pf.StringVar(&vault, "vault", ".", "Directory holding quest records")
	pf.StringVar(&seed, "seed", "", "Dice seed override")
	pf.StringVar(&theme, "theme", "catppuccin", "Colour theme")
	pf.StringVar(&save, "save", "default", "Save slot name")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Log notices instead of printing them")

	root.AddCommand(
		newStatusCmd(),
		newBoardCmd(),
		newLoginCmd(),
		newCreateCmd(),
		newCompleteCmd(),
		newFailCmd(),
		newDeleteCmd(),
		newSweepCmd(),
		newChaosCmd(),
		newResearchCmd(),
		newChainCmd(),
		newFilterCmd(),
		newMeditateCmd(),
		newShopCmd(),
		newSkillCmd(),
		newBossCmd(),
		newReportCmd(),
		newDeathCmd(),
		newMigrateCmd(),
		newExportCmd(),
		newVersionCmd(),
	)
	return root
}
