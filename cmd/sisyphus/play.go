package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DaanHessen/sisyphus/internal/engine"
	"github.com/DaanHessen/sisyphus/internal/ui"
)

func newChaosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chaos",
		Short: "Re-roll today's chaos modifier",
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			if err := a.eng.RollChaos(cmd.Context()); err != nil {
				return err
			}
			m := a.eng.State().DailyModifier
			a.printf("%s %s: %s\n", m.Icon, m.Name, m.Desc)
			return nil
		}),
	}
}

func intArg(s, name string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return n, nil
}

func newResearchCmd() *cobra.Command {
	var kind, skill, combat string
	cmd := &cobra.Command{
		Use:   "research",
		Short: "List research quests and the research ratio",
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			st := a.eng.State()
			r := st.ResearchRatio()
			a.printf("research %d : combat %d (%.2f)\n", r.Research, r.Combat, r.Ratio)
			for _, q := range st.ResearchQuests {
				mark := " "
				if q.Completed {
					mark = "x"
				}
				a.printf("[%s] %-8s %-9s %d/%d words  %s\n", mark, q.ID, q.Type, q.WordCount, q.WordLimit, q.Title)
			}
			return nil
		}),
	}
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Start a research quest (needs two combat quests each)",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			q, err := a.eng.CreateResearch(cmd.Context(), strings.Join(args, " "), engine.ResearchType(kind), skill, combat)
			if err != nil {
				return err
			}
			a.printf("%s (%d words)\n", q.ID, q.WordLimit)
			return nil
		}),
	}
	add.Flags().StringVar(&kind, "type", string(engine.ResearchSurvey), "survey or deep_dive")
	add.Flags().StringVar(&skill, "skill", "", "Linked skill")
	add.Flags().StringVar(&combat, "combat", "", "Linked combat quest")

	done := &cobra.Command{
		Use:   "done <id> <words>",
		Short: "Complete a research quest",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			words, err := intArg(args[1], "words")
			if err != nil {
				return err
			}
			return a.eng.CompleteResearch(cmd.Context(), args[0], words)
		}),
	}
	words := &cobra.Command{
		Use:   "words <id> <words>",
		Short: "Record progress on a research quest",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			n, err := intArg(args[1], "words")
			if err != nil {
				return err
			}
			return a.eng.UpdateResearchWordCount(cmd.Context(), args[0], n)
		}),
	}
	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a research quest",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			return a.eng.DeleteResearch(cmd.Context(), args[0])
		}),
	}
	cmd.AddCommand(add, done, words, rm)
	return cmd
}

func newMeditateCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "meditate",
		Short: "Meditate to shorten a lockdown",
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			if check {
				return a.eng.AttemptRecovery(cmd.Context())
			}
			return a.eng.Meditate(cmd.Context())
		}),
	}
	cmd.Flags().BoolVar(&check, "check", false, "Only report the remaining lockdown")
	return cmd
}

func newShopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shop [item]",
		Short: "List the shop, or buy an item",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			if len(args) == 1 {
				if err := a.eng.Buy(cmd.Context(), args[0]); err != nil {
					return err
				}
				a.printStatus()
				return nil
			}
			st := a.eng.State()
			for _, it := range engine.Shop {
				a.printf("%-10s %-14s %4dg  %s\n", it.ID, it.Name, engine.Price(it.Cost, st.DailyModifier.PriceMult), it.Desc)
			}
			a.printf("gold: %d\n", st.Gold)
			return nil
		}),
	}
}

func newSkillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skill",
		Short: "List skills",
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			for _, sk := range a.eng.State().Skills {
				a.printf("%-14s L%-2d xp %.1f/%d rust %d  %s\n", sk.Name, sk.Level, sk.XP, sk.XPReq, sk.Rust, strings.Join(sk.Connections, ","))
			}
			return nil
		}),
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name>",
			Short: "Learn a new skill",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
				return a.eng.AddSkill(cmd.Context(), args[0])
			}),
		},
		&cobra.Command{
			Use:   "polish <name>",
			Short: "Remove rust from a skill",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
				return a.eng.PolishSkill(cmd.Context(), args[0])
			}),
		},
	)
	return cmd
}

func newBossCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boss",
		Short: "Show the boss ladder",
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			for _, b := range a.eng.State().BossMilestones {
				state := "locked"
				switch {
				case b.Defeated:
					state = "defeated"
				case b.Unlocked:
					state = "unlocked"
				}
				a.printf("L%-3d %-28s %-9s +%dxp\n", b.Level, b.Name, state, b.XPReward)
			}
			return nil
		}),
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "defeat <level>",
		Short: "Claim an unlocked boss",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			lvl, err := intArg(args[0], "level")
			if err != nil {
				return err
			}
			return a.eng.DefeatBoss(cmd.Context(), lvl)
		}),
	})
	return cmd
}

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Generate this week's report",
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			r, err := a.eng.GenerateWeeklyReport(cmd.Context())
			if err != nil {
				return err
			}
			a.printf("%s", a.theme.Report(r))
			return nil
		}),
	}
}

func newDeathCmd() *cobra.Command {
	var accept bool
	cmd := &cobra.Command{
		Use:   "death",
		Short: "Show the chronicle of ended runs",
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			if accept {
				if err := a.eng.AcceptDeath(cmd.Context()); err != nil {
					return err
				}
			}
			md, err := a.records.Chronicle()
			if err != nil {
				return err
			}
			a.printf("%s", ui.RenderChronicle(md, 80))
			runs, err := a.store.Runs(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range runs {
				a.printf("run %d  level %d  souls %d  %s  %s\n", r.Run, r.Level, r.Souls, r.EndedAt.Format("2006-01-02"), r.Dir)
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&accept, "accept", false, "End the current run now")
	return cmd
}
