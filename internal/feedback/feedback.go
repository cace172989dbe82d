// Package feedback turns engine notices and sound cues into terminal output, log lines or a
// queue the board drains.
package feedback

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/DaanHessen/sisyphus/internal/engine"
)

// Styles colours terminal output. The zero value prints plain text.
type Styles struct {
	Notice lipgloss.Style
	Alert  lipgloss.Style
	Muted  lipgloss.Style
}

// alertSounds ring the terminal bell.
var alertSounds = map[engine.Sound]bool{
	engine.SoundFail:      true,
	engine.SoundDeath:     true,
	engine.SoundHeartbeat: true,
}

var soundGlyphs = map[engine.Sound]string{
	engine.SoundSuccess:   "♪ success",
	engine.SoundFail:      "♪ fail",
	engine.SoundDeath:     "♪ death knell",
	engine.SoundHeartbeat: "♪ heartbeat",
	engine.SoundMeditate:  "♪ bowl",
}

// Terminal prints one line per notice.
type Terminal struct {
	mu     sync.Mutex
	w      io.Writer
	styles Styles
	bell   bool
}

func NewTerminal(w io.Writer, styles Styles, bell bool) *Terminal {
	return &Terminal{w: w, styles: styles, bell: bell}
}

func (t *Terminal) Notify(msg string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	style := t.styles.Notice
	if isAlert(msg) {
		style = t.styles.Alert
	}
	fmt.Fprintln(t.w, style.Render(msg))
}

func (t *Terminal) PlaySound(s engine.Sound) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.bell && alertSounds[s] {
		fmt.Fprint(t.w, "\a")
	}
	if g, ok := soundGlyphs[s]; ok {
		fmt.Fprintln(t.w, t.styles.Muted.Render(g))
	}
}

func isAlert(msg string) bool {
	for _, p := range []string{"💀", "☠️", "🔒", "⚠️", "❌"} {
		if strings.HasPrefix(msg, p) {
			return true
		}
	}
	return false
}

// Log writes notices to a structured logger, for headless runs.
type Log struct {
	log *slog.Logger
}

func NewLog(l *slog.Logger) *Log {
	if l == nil {
		l = slog.Default()
	}
	return &Log{log: l}
}

func (l *Log) Notify(msg string, d time.Duration) {
	l.log.Info("notice", "text", msg, "ttl", d)
}

func (l *Log) PlaySound(s engine.Sound) { l.log.Debug("sound", "sound", string(s)) }

// Notice is a queued message with the time it stops being shown.
type Notice struct {
	Message string
	Until   time.Time
}

// Queue buffers notices for a renderer that polls, such as the board.
type Queue struct {
	mu      sync.Mutex
	now     func() time.Time
	notices []Notice
	sounds  []engine.Sound
	limit   int
}

// NewQueue keeps at most limit notices; older ones are dropped first.
func NewQueue(limit int, now func() time.Time) *Queue {
	if now == nil {
		now = time.Now
	}
	if limit <= 0 {
		limit = 8
	}
	return &Queue{now: now, limit: limit}
}

func (q *Queue) Notify(msg string, d time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.notices = append(q.notices, Notice{Message: msg, Until: q.now().Add(d)})
	if over := len(q.notices) - q.limit; over > 0 {
		q.notices = q.notices[over:]
	}
}

func (q *Queue) PlaySound(s engine.Sound) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sounds = append(q.sounds, s)
}

// Visible prunes expired notices and returns the rest, oldest first.
func (q *Queue) Visible() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	now := q.now()
	kept := q.notices[:0]
	for _, n := range q.notices {
		if now.Before(n.Until) {
			kept = append(kept, n)
		}
	}
	q.notices = kept
	return append([]Notice(nil), kept...)
}

// DrainSounds returns and clears pending sound cues.
func (q *Queue) DrainSounds() []engine.Sound {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.sounds
	q.sounds = nil
	return out
}

// Multi fans every call out to each non-nil sink.
func Multi(sinks ...engine.Feedback) engine.Feedback {
	kept := make(multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return kept
}

type multi []engine.Feedback

func (m multi) Notify(msg string, d time.Duration) {
	for _, s := range m {
		s.Notify(msg, d)
	}
}

func (m multi) PlaySound(s engine.Sound) {
	for _, f := range m {
		f.PlaySound(s)
	}
}

// WithFallback sends to primary, or to fallback when primary is nil.
func WithFallback(primary, fallback engine.Feedback) engine.Feedback {
	if primary == nil {
		return fallback
	}
	return primary
}
