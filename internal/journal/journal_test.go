package journal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestJournalLog(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "state")
	j := New(tmpDir)

	if err := j.LogConsent("/ok", true); err != nil {
		t.Fatalf("LogConsent failed: %v", err)
	}
	if err := j.LogAction("play_music", "周杰倫", false, map[string]any{"status": "fail"}); err != nil {
		t.Fatalf("LogAction failed: %v", err)
	}
	if err := j.LogAlert("目前情緒：sad"); err != nil {
		t.Fatalf("LogAlert failed: %v", err)
	}

	entries, err := j.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}

	if entries[0].Type != EntryConsent {
		t.Errorf("Expected consent type, got %s", entries[0].Type)
	}
	if entries[1].Outcome != "fail" || entries[1].Context != "周杰倫" {
		t.Errorf("Unexpected action entry: %+v", entries[1])
	}
	if entries[2].Type != EntryAlert {
		t.Errorf("Expected alert type, got %s", entries[2].Type)
	}

	f, err := os.Open(filepath.Join(tmpDir, "journal.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var entry Entry
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			t.Errorf("Invalid JSON line: %s", sc.Text())
		}
	}
}

func TestJournalRecent_Limit(t *testing.T) {
	j := New(t.TempDir())
	for _, mode := range []string{"MENU", "CHAT", "MENU"} {
		j.LogMode("X", mode)
	}

	entries, err := j.Recent(2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Summary != "X -> CHAT" {
		t.Errorf("Unexpected entries: %+v", entries)
	}
}

func TestJournalRecent_Missing(t *testing.T) {
	j := New(t.TempDir())
	entries, err := j.Recent(5)
	if err != nil || entries != nil {
		t.Errorf("Expected nil, nil for missing journal, got %v, %v", entries, err)
	}
}

func TestJournalSince(t *testing.T) {
	j := New(t.TempDir())
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	j.Log(Entry{Timestamp: base.Add(-24 * time.Hour), Type: EntryAction, Summary: "open_puzzle"})
	j.Log(Entry{Timestamp: base, Type: EntryAction, Summary: "play_music"})
	j.Log(Entry{Timestamp: base.Add(time.Hour), Type: EntryAction, Summary: "play_mind_audio"})

	entries, err := j.Since(base)
	if err != nil {
		t.Fatalf("Since failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Summary != "play_music" {
		t.Errorf("Unexpected entries: %+v", entries)
	}
}

func TestJournalSkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "journal.jsonl"), []byte("{not json}\n\n{\"type\":\"alert\",\"summary\":\"x\"}\n"), 0644)

	entries, err := New(dir).Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Type != EntryAlert {
		t.Errorf("Unexpected entries: %+v", entries)
	}
}
