package profiling

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readTimings(t *testing.T, path string) []Timing {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read timings: %v", err)
	}
	var timings []Timing
	dec := json.NewDecoder(strings.NewReader(string(data)))
	for dec.More() {
		var tm Timing
		if err := dec.Decode(&tm); err != nil {
			t.Fatalf("decode timing: %v", err)
		}
		timings = append(timings, tm)
	}
	return timings
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"": LevelOff, "off": LevelOff, "calls": LevelCalls, "tools": LevelTools} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("trace"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestEnabled(t *testing.T) {
	dir := t.TempDir()
	calls, _ := Open(LevelCalls, filepath.Join(dir, "a.jsonl"))
	tools, _ := Open(LevelTools, filepath.Join(dir, "b.jsonl"))
	off, _ := Open(LevelOff, "")
	defer calls.Close()
	defer tools.Close()

	if !calls.Enabled(LevelCalls) || calls.Enabled(LevelTools) {
		t.Error("calls level gates wrong")
	}
	if !tools.Enabled(LevelCalls) || !tools.Enabled(LevelTools) {
		t.Error("tools level gates wrong")
	}
	if off.Enabled(LevelCalls) {
		t.Error("off should record nothing")
	}
	var nilP *Profiler
	if nilP.Enabled(LevelCalls) {
		t.Error("nil profiler should be disabled")
	}
	nilP.Start(LevelCalls, "x", "y")(nil, nil)
}

func TestStart_Records(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system", "timing.jsonl")
	p, err := Open(LevelCalls, path)
	if err != nil {
		t.Fatal(err)
	}

	p.Start(LevelCalls, "s1", "invoke")(nil, map[string]any{"json": true})
	p.Start(LevelCalls, "s2", "dialogue_turn")(errors.New("boom"), nil)
	p.Start(LevelTools, "s1", "tool:list_media")(nil, nil)
	p.Close()

	got := readTimings(t, path)
	if len(got) != 2 {
		t.Fatalf("expected 2 timings, got %d", len(got))
	}
	if got[0].ID != "s1" || got[0].Stage != "invoke" || got[0].DurationMs < 0 || got[0].Metadata["json"] != true {
		t.Errorf("first timing = %+v", got[0])
	}
	if got[1].Error != "boom" {
		t.Errorf("second timing error = %q", got[1].Error)
	}
}

func TestInitGet(t *testing.T) {
	if Get().Enabled(LevelCalls) {
		t.Fatal("global profiler should start disabled")
	}
	path := filepath.Join(t.TempDir(), "timing.jsonl")
	if err := Init(LevelCalls, path); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		Get().Close()
		Init(LevelOff, "")
	})
	if !Get().Enabled(LevelCalls) {
		t.Error("Init did not replace the global profiler")
	}
}
