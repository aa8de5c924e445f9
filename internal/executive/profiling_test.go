package executive

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vthunder/companion/internal/llm"
	"github.com/vthunder/companion/internal/profiling"
)

func TestInvoker_RecordsTimings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timing.jsonl")
	if err := profiling.Init(profiling.LevelTools, path); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		profiling.Get().Close()
		profiling.Init(profiling.LevelOff, "")
	})

	f := &fakeFactory{script: scripted(
		llm.ToolCall{ID: "1", Name: "list_media"},
		llm.ToolResult{ID: "1", Name: "list_media", Content: `{"status":"ok"}`},
		llm.ContentDelta{Text: `{"status":"ok"}`},
	)}
	if _, err := NewInvoker(f, false).Invoke(context.Background(), "list"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 timings, got %d: %s", len(lines), data)
	}
	if !strings.Contains(lines[0], `"stage":"tool:list_media"`) {
		t.Errorf("first timing = %s", lines[0])
	}
	if !strings.Contains(lines[1], `"stage":"invoke"`) || !strings.Contains(lines[1], `"json":true`) {
		t.Errorf("second timing = %s", lines[1])
	}
}
