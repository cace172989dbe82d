package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/DaanHessen/sisyphus/internal/engine"
	"github.com/DaanHessen/sisyphus/internal/feedback"
)

const refreshEvery = time.Second

type tickMsg time.Time

type questsMsg struct {
	quests []engine.QuestSummary
	err    error
}

type opDoneMsg struct {
	op  string
	err error
}

// board is the interactive quest board.
type board struct {
	ctx    context.Context
	eng    *engine.Engine
	queue  *feedback.Queue
	theme  Theme
	state  *engine.PlayerState
	now    time.Time
	quests []engine.QuestSummary
	cursor int
	status string
	width  int
	height int
}

func newBoard(ctx context.Context, eng *engine.Engine, queue *feedback.Queue, theme string) board {
	return board{
		ctx:   ctx,
		eng:   eng,
		queue: queue,
		theme: NewTheme(theme),
		state: eng.State(),
		now:   eng.Now(),
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m board) loadQuests() tea.Msg {
	qs, err := m.eng.ActiveQuests(m.ctx)
	return questsMsg{quests: qs, err: err}
}

// op runs fn off the update loop and reports back.
func (m board) op(name string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg { return opDoneMsg{op: name, err: fn(m.ctx)} }
}

func (m board) Init() tea.Cmd { return tea.Batch(m.loadQuests, tick()) }

func (m board) selected() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.quests) {
		return "", false
	}
	return m.quests[m.cursor].ID, true
}

func (m board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m.state = m.eng.State()
		m.now = m.eng.Now()
		return m, tick()
	case questsMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.quests = msg.quests
		if m.cursor >= len(m.quests) {
			m.cursor = len(m.quests) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil
	case opDoneMsg:
		m.status = ""
		if msg.err != nil && !engine.IsRefusal(msg.err) {
			m.status = msg.op + ": " + msg.err.Error()
		}
		m.state = m.eng.State()
		return m, m.loadQuests
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m board) handleKey(k string) (tea.Model, tea.Cmd) {
	switch k {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.quests)-1 {
			m.cursor++
		}
	case "r":
		return m, m.loadQuests
	case "t":
		m.theme = NewTheme(nextThemeName(m.theme.Name, 1))
	case "m":
		return m, m.op("meditate", m.eng.Meditate)
	case "s":
		return m, m.op("sweep", func(ctx context.Context) error {
			_, err := m.eng.SweepDeadlines(ctx)
			return err
		})
	case "enter", "c", "f", "x":
		id, ok := m.selected()
		if !ok {
			return m, nil
		}
		switch k {
		case "f":
			return m, m.op("fail", func(ctx context.Context) error { return m.eng.FailQuest(ctx, id, true) })
		case "x":
			return m, m.op("delete", func(ctx context.Context) error { return m.eng.DeleteQuestWithCost(ctx, id) })
		default:
			return m, m.op("complete", func(ctx context.Context) error { return m.eng.CompleteQuest(ctx, id) })
		}
	}
	return m, nil
}

func (m board) View() string {
	t := m.theme
	w := m.width
	if w <= 0 {
		w = 100
	}
	top := t.Title.Render("SISYPHUS") + "  " + t.StatusLine(m.state, m.now)

	var left strings.Builder
	left.WriteString(t.Title.Render("QUESTS") + "\n")
	if len(m.quests) == 0 {
		left.WriteString(t.Muted.Render("(no active quests)") + "\n")
	}
	for i, q := range m.quests {
		line := m.questLine(q)
		if i == m.cursor {
			line = t.Select.Render(line)
		}
		left.WriteString(line + "\n")
	}

	var right strings.Builder
	right.WriteString(fmt.Sprintf("HP %s\nXP %s\n\n", t.gauge(m.state.HP, m.state.MaxHP), t.gauge(m.state.XP, m.state.XPReq)))
	right.WriteString(t.Title.Render("MISSIONS") + "\n")
	for _, ms := range m.state.DailyMissions {
		mark := "·"
		if ms.Completed {
			mark = "✓"
		}
		right.WriteString(fmt.Sprintf("%s %s %d/%d\n", mark, ms.Name, ms.Progress, ms.Target))
	}
	if m.state.IsLockedDown(m.now) {
		right.WriteString("\n" + t.Danger.Render("LOCKDOWN "+hms(m.state.Lockdown.Remaining(m.now))) + "\n")
	}

	sideWidth := 34
	mainWidth := w - sideWidth - 4
	if mainWidth < 30 {
		mainWidth = 30
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(mainWidth).Render(left.String()),
		t.Panel.Width(sideWidth).Render(right.String()),
	)

	var notes strings.Builder
	if m.queue != nil {
		for _, n := range m.queue.Visible() {
			notes.WriteString(n.Message + "\n")
		}
	}
	if m.status != "" {
		notes.WriteString(t.Danger.Render(m.status) + "\n")
	}
	help := t.Muted.Render("[↑/↓] select  [enter] complete  [f] fail  [x] delete  [m] meditate  [s] sweep  [t] theme  [q] quit")
	return lipgloss.JoinVertical(lipgloss.Left, top, body, notes.String(), help)
}

func (m board) questLine(q engine.QuestSummary) string {
	meta := q.Meta
	line := fmt.Sprintf("%-28s %-10s +%dxp +%dg", q.ID, meta.Difficulty, meta.XPReward, meta.GoldReward)
	if due, ok := meta.DeadlineTime(); ok {
		left := due.Sub(m.now)
		if left < 0 {
			line += "  OVERDUE"
		} else {
			line += "  " + hms(left)
		}
	}
	if meta.HighStakes {
		line += " ⚠️"
	}
	if meta.IsBoss {
		line += " 👹"
	}
	return line
}
