package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/DaanHessen/sisyphus/internal/engine"
	"github.com/DaanHessen/sisyphus/internal/feedback"
	"github.com/DaanHessen/sisyphus/internal/ui"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the character sheet",
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			a.printf("%s", a.theme.Summary(a.eng.State(), a.eng.Now(), a.eng.DeletionQuota()))
			return nil
		}),
	}
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Apply the daily rollover and print the status line",
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			a.printStatus()
			return nil
		}),
	}
}

func newBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the interactive quest board",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cfgFrom(cmd)
			queue := feedback.NewQueue(6, nil)
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			a, err := openApp(ctx, cfg, cmd.OutOrStdout(), queue)
			if err != nil {
				return err
			}
			defer a.Close()
			sweeper := engine.NewSweeper(a.eng, cfg.SweepInterval, a.log)
			sweeper.Tick(ctx)
			go sweeper.Start(ctx)
			defer sweeper.Stop()
			err = ui.Run(ctx, a.eng, queue, cfg.Theme)
			sweeps, failed := sweeper.Stats()
			a.log.Debug("board closed", "sweeps", sweeps, "failed", failed)
			return err
		},
	}
}

func newCreateCmd() *cobra.Command {
	var (
		spec  engine.QuestSpec
		quick bool
		due   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Deploy a new quest",
		Long:  "Deploy a new quest. With --quick the name may carry a /1../5 difficulty token and gets a 24h deadline.",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			name := strings.Join(args, " ")
			var (
				id  string
				err error
			)
			if quick {
				id, err = a.eng.QuickCreate(cmd.Context(), name)
			} else {
				spec.Name = name
				if due > 0 && spec.Deadline == "" {
					spec.Deadline = a.eng.Now().Add(due).Format(time.RFC3339)
				}
				id, err = a.eng.CreateQuest(cmd.Context(), spec)
			}
			if err != nil {
				return err
			}
			a.printf("%s\n", id)
			return nil
		}),
	}
	f := cmd.Flags()
	f.IntVarP(&spec.Difficulty, "difficulty", "d", 3, "Difficulty (1-5)")
	f.StringVarP(&spec.Skill, "skill", "s", "", "Primary skill")
	f.StringVar(&spec.SecondarySkill, "secondary", "", "Secondary skill")
	f.StringVar(&spec.Deadline, "deadline", "", "Deadline (2006-01-02T15:04 or RFC3339)")
	f.DurationVar(&due, "in", 0, "Deadline relative to now, e.g. 4h")
	f.StringVarP(&spec.Priority, "priority", "p", "", "Priority label")
	f.BoolVar(&spec.HighStakes, "high-stakes", false, "Double rewards, triple damage")
	f.BoolVar(&spec.IsBoss, "boss", false, "Boss quest")
	f.BoolVar(&quick, "quick", false, "Parse the name as a quick capture")
	return cmd
}

func newCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Complete a quest and collect its rewards",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			if err := a.eng.CompleteQuest(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.printStatus()
			return nil
		}),
	}
}

func newFailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fail <id>",
		Short: "Abort a quest and take the damage",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			if err := a.eng.FailQuest(cmd.Context(), args[0], true); err != nil {
				return err
			}
			a.printStatus()
			return nil
		}),
	}
}

func newDeleteCmd() *cobra.Command {
	var free bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a quest against the daily quota",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			if free {
				return a.eng.DeleteQuest(cmd.Context(), args[0])
			}
			if err := a.eng.DeleteQuestWithCost(cmd.Context(), args[0]); err != nil {
				return err
			}
			q := a.eng.DeletionQuota()
			a.printf("%d deletions left today\n", q.Remaining)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&free, "free", false, "Remove the record without touching the quota")
	return cmd
}

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Fail every quest past its deadline",
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			n, err := a.eng.SweepDeadlines(cmd.Context())
			if err != nil {
				return err
			}
			a.printf("%d overdue quests failed\n", n)
			return nil
		}),
	}
}

func newChainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Show the active quest chain",
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			st := a.eng.State()
			ch := st.ActiveChain()
			if ch == nil {
				a.printf("No active chain.\n")
				return nil
			}
			p := st.ChainProgress()
			a.printf("%s %d/%d (%d%%)\n", ch.Name, p.Completed, p.Total, p.Percent)
			for i, id := range ch.Quests {
				mark := " "
				switch {
				case i < ch.CurrentIndex:
					mark = "x"
				case i == ch.CurrentIndex:
					mark = ">"
				}
				a.printf("[%s] %s\n", mark, id)
			}
			return nil
		}),
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "create <name> <quest-id>...",
			Short: "Start an ordered chain of existing quests",
			Args:  cobra.MinimumNArgs(2),
			RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
				_, err := a.eng.CreateChain(cmd.Context(), args[0], args[1:])
				return err
			}),
		},
		&cobra.Command{
			Use:   "break",
			Short: "Abandon the active chain",
			RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
				rec, err := a.eng.BreakChain(cmd.Context())
				if err != nil {
					return err
				}
				a.printf("Chain %s broken after %d quests, %d XP kept.\n", rec.ChainName, rec.TotalQuests, rec.XPEarned)
				return nil
			}),
		},
	)
	return cmd
}

func newFilterCmd() *cobra.Command {
	var (
		energy, qctx string
		tags         []string
	)
	parse := func() (engine.EnergyLevel, engine.QuestContext, error) {
		e, c := engine.EnergyLevel(energy), engine.QuestContext(qctx)
		if !e.Validate() {
			return e, c, errors.New("energy must be any, high, medium or low")
		}
		if !c.Validate() {
			return e, c, errors.New("context must be any, home, office or anywhere")
		}
		return e, c, nil
	}
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "List active quests through the current filter",
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			qs, err := a.eng.ActiveQuests(cmd.Context())
			if err != nil {
				return err
			}
			for _, q := range qs {
				a.printf("%-30s %-10s +%dxp +%dg %s\n", q.ID, q.Meta.Difficulty, q.Meta.XPReward, q.Meta.GoldReward, q.Meta.Deadline)
			}
			if tags := a.eng.State().AvailableTags(); len(tags) > 0 {
				a.printf("tags: %s\n", strings.Join(tags, ", "))
			}
			return nil
		}),
	}
	set := &cobra.Command{
		Use:   "set",
		Short: "Set the active energy/context/tag filter",
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			e, c, err := parse()
			if err != nil {
				return err
			}
			return a.eng.SetFilterState(cmd.Context(), e, c, tags)
		}),
	}
	tag := &cobra.Command{
		Use:   "tag <quest-id>",
		Short: "Attach energy/context/tags to a quest",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			e, c, err := parse()
			if err != nil {
				return err
			}
			return a.eng.SetQuestFilter(cmd.Context(), args[0], e, c, tags)
		}),
	}
	for _, sub := range []*cobra.Command{set, tag} {
		sub.Flags().StringVar(&energy, "energy", string(engine.EnergyAny), "Energy level")
		sub.Flags().StringVar(&qctx, "context", string(engine.ContextAny), "Context")
		sub.Flags().StringSliceVar(&tags, "tags", nil, "Tags")
	}
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the active filter",
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			return a.eng.ClearFilters(cmd.Context())
		}),
	}
	cmd.AddCommand(set, tag, clearCmd)
	return cmd
}
