package feedback

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/DaanHessen/sisyphus/internal/engine"
)

func TestTerminalPrintsNoticesAndBell(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, Styles{}, true)
	engine.Dispatch(term, []engine.Event{
		{Kind: engine.EventNotice, Message: "⚔️ Deployed: report", Duration: time.Second},
		{Kind: engine.EventSound, Sound: engine.SoundFail},
		{Kind: engine.EventSound, Sound: engine.SoundSuccess},
	})
	out := buf.String()
	if !strings.Contains(out, "⚔️ Deployed: report\n") {
		t.Fatalf("notice missing: %q", out)
	}
	if strings.Count(out, "\a") != 1 {
		t.Fatalf("expected one bell: %q", out)
	}
	if !strings.Contains(out, "♪ success") {
		t.Fatalf("sound cue missing: %q", out)
	}
}

func TestTerminalWithoutBell(t *testing.T) {
	var buf bytes.Buffer
	NewTerminal(&buf, Styles{}, false).PlaySound(engine.SoundDeath)
	if strings.Contains(buf.String(), "\a") {
		t.Fatal("bell disabled")
	}
}

func TestQueueExpiresAndCaps(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	q := NewQueue(2, func() time.Time { return now })
	q.Notify("a", time.Second)
	q.Notify("b", time.Minute)
	q.Notify("c", time.Minute)
	vis := q.Visible()
	if len(vis) != 2 || vis[0].Message != "b" {
		t.Fatalf("cap: %+v", vis)
	}
	now = now.Add(2 * time.Minute)
	if vis := q.Visible(); len(vis) != 0 {
		t.Fatalf("expired notices kept: %+v", vis)
	}
	q.PlaySound(engine.SoundMeditate)
	if s := q.DrainSounds(); len(s) != 1 || s[0] != engine.SoundMeditate {
		t.Fatalf("sounds: %v", s)
	}
	if s := q.DrainSounds(); len(s) != 0 {
		t.Fatalf("drain should clear: %v", s)
	}
}

func TestMultiAndLog(t *testing.T) {
	var logs bytes.Buffer
	l := NewLog(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	q := NewQueue(4, nil)
	fb := Multi(l, nil, q)
	fb.Notify("🏅 Achievement Unlocked", time.Minute)
	fb.PlaySound(engine.SoundSuccess)
	if !strings.Contains(logs.String(), "Achievement") || !strings.Contains(logs.String(), "sound=success") {
		t.Fatalf("log output: %s", logs.String())
	}
	if len(q.Visible()) != 1 || len(q.DrainSounds()) != 1 {
		t.Fatal("queue should receive fan-out")
	}
}

func TestWithFallback(t *testing.T) {
	q := NewQueue(1, nil)
	if WithFallback(nil, q) != engine.Feedback(q) {
		t.Fatal("nil primary should use fallback")
	}
	p := NewQueue(1, nil)
	if WithFallback(p, q) != engine.Feedback(p) {
		t.Fatal("primary should win")
	}
}
