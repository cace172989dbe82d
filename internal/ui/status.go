package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/DaanHessen/sisyphus/internal/engine"
)

const barWidth = 10

// bar draws v out of max as a fixed-width gauge.
func bar(v, max int) string {
	if max <= 0 {
		max = 1
	}
	fill := int(float64(v)/float64(max)*barWidth + 0.5)
	if fill < 0 {
		fill = 0
	}
	if fill > barWidth {
		fill = barWidth
	}
	return strings.Repeat("█", fill) + strings.Repeat("·", barWidth-fill)
}

func (t Theme) gauge(v, max int) string {
	g := bar(v, max)
	n := strings.Count(g, "█")
	return t.BarFill.Render(g[:n*len("█")]) + t.BarGap.Render(g[n*len("█"):])
}

// StatusLine colours the engine's one-line HUD by health.
func (t Theme) StatusLine(st *engine.PlayerState, now time.Time) string {
	line := engine.FormatStatus(st, now)
	switch {
	case st.HP <= st.MaxHP/5:
		return t.Danger.Render(line)
	case st.HP <= st.MaxHP/2:
		return t.Warn.Render(line)
	}
	return t.Text.Render(line)
}

func hms(d time.Duration) string {
	d = d.Round(time.Minute)
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}

// Summary is the multi-line character sheet printed by the status command.
func (t Theme) Summary(st *engine.PlayerState, now time.Time, quota engine.DeletionQuota) string {
	var b strings.Builder
	b.WriteString(t.Title.Render(fmt.Sprintf("RUN %d  LEVEL %d", st.RunCount, st.Level)) + "\n")
	b.WriteString(t.StatusLine(st, now) + "\n\n")
	fmt.Fprintf(&b, "HP  %s %d/%d\n", t.gauge(st.HP, st.MaxHP), st.HP, st.MaxHP)
	fmt.Fprintf(&b, "XP  %s %d/%d\n", t.gauge(st.XP, st.XPReq), st.XP, st.XPReq)
	fmt.Fprintf(&b, "Gold %d  Rival dmg %d  Souls %d  Deaths %d\n", st.Gold, st.RivalDmg, st.Legacy.Souls, st.Legacy.DeathCount)
	fmt.Fprintf(&b, "Streak %d (best %d)\n", st.Streak.Current, st.Streak.Longest)
	m := st.DailyModifier
	b.WriteString(t.Muted.Render(fmt.Sprintf("%s %s: %s", m.Icon, m.Name, m.Desc)) + "\n")

	if st.IsLockedDown(now) {
		ms := st.MeditationStatus(now)
		b.WriteString(t.Danger.Render(fmt.Sprintf("LOCKDOWN %s left, meditation %d/%d", hms(ms.LockRemaining), ms.CyclesDone, ms.CyclesDone+ms.CyclesRemaining)) + "\n")
	}
	if st.IsShielded(now) {
		b.WriteString(t.Good.Render("Shield "+hms(st.Shielded.Remaining(now))) + "\n")
	}
	if st.IsResting(now) {
		b.WriteString(t.Good.Render("Rest day "+hms(st.RestDay.Remaining(now))) + "\n")
	}

	b.WriteString("\n" + t.Title.Render("MISSIONS") + "\n")
	if len(st.DailyMissions) == 0 {
		b.WriteString(t.Muted.Render("(none)") + "\n")
	}
	for _, ms := range st.DailyMissions {
		mark := "[ ]"
		style := t.Text
		if ms.Completed {
			mark, style = "[x]", t.Good
		}
		b.WriteString(style.Render(fmt.Sprintf("%s %s %d/%d  %s", mark, ms.Name, ms.Progress, ms.Target, ms.Desc)) + "\n")
	}

	if ch := st.ActiveChain(); ch != nil {
		p := st.ChainProgress()
		fmt.Fprintf(&b, "\nChain %s %d/%d (%d%%)\n", ch.Name, p.Completed, p.Total, p.Percent)
	}
	r := st.ResearchRatio()
	fmt.Fprintf(&b, "Research %d : combat %d\n", r.Research, r.Combat)
	fmt.Fprintf(&b, "Deletions left today %d\n", quota.Remaining)

	if len(st.Skills) > 0 {
		b.WriteString("\n" + t.Title.Render("SKILLS") + "\n")
		for _, sk := range st.Skills {
			rust := ""
			if sk.Rust > 0 {
				rust = t.Warn.Render(fmt.Sprintf(" rust %d", sk.Rust))
			}
			fmt.Fprintf(&b, "%-12s L%-2d %s%s\n", sk.Name, sk.Level, t.gauge(int(sk.XP), sk.XPReq), rust)
		}
	}
	return b.String()
}

// Report renders a weekly report as a short block.
func (t Theme) Report(r engine.WeeklyReport) string {
	var b strings.Builder
	b.WriteString(t.Title.Render(fmt.Sprintf("WEEK %d-W%02d", r.Year, r.Week)) + "\n")
	fmt.Fprintf(&b, "%s .. %s\n", r.StartDate, r.EndDate)
	fmt.Fprintf(&b, "Quests %d  Success %d%%  XP %d  Gold %d\n", r.TotalQuests, r.SuccessRate, r.TotalXP, r.TotalGold)
	if len(r.TopSkills) > 0 {
		fmt.Fprintf(&b, "Top skills: %s\n", strings.Join(r.TopSkills, ", "))
	}
	if r.BestDay != "" {
		fmt.Fprintf(&b, "Best %s  Worst %s\n", r.BestDay, r.WorstDay)
	}
	return b.String()
}

// RenderChronicle renders chronicle markdown for the terminal. Rendering errors fall back to the raw text.
func RenderChronicle(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return "No runs have ended yet.\n"
	}
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}
