package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestToolParameters(t *testing.T) {
	tool := mcp.NewTool("open_index",
		mcp.WithDescription("Open the nth file"),
		mcp.WithString("kind", mcp.Required()),
		mcp.WithNumber("index", mcp.Required()),
	)

	raw, err := toolParameters(tool)
	if err != nil {
		t.Fatalf("toolParameters failed: %v", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	if schema["type"] != "object" {
		t.Errorf("type = %v", schema["type"])
	}
	props, _ := schema["properties"].(map[string]any)
	if _, ok := props["kind"]; !ok {
		t.Errorf("missing kind property: %v", props)
	}
	if _, ok := props["index"]; !ok {
		t.Errorf("missing index property: %v", props)
	}
}

func TestToolParameters_NoArguments(t *testing.T) {
	tool := mcp.NewTool("list_media")

	raw, err := toolParameters(tool)
	if err != nil {
		t.Fatalf("toolParameters failed: %v", err)
	}
	if !strings.Contains(string(raw), `"properties":{}`) {
		t.Errorf("expected empty properties object, got %s", raw)
	}
}

func TestContentText(t *testing.T) {
	content := []mcp.Content{
		mcp.NewTextContent(`{"temp_path":"/tmp/puzzle_mcp/puzzle.html"}`),
		mcp.NewTextContent("second"),
	}
	got := contentText(content)
	want := "{\"temp_path\":\"/tmp/puzzle_mcp/puzzle.html\"}\nsecond"
	if got != want {
		t.Errorf("contentText = %q, want %q", got, want)
	}
}

func TestToolbox_UnknownTool(t *testing.T) {
	tb := &Toolbox{route: make(map[string]*ProxyClient)}
	_, err := tb.Call(context.Background(), "play_song", `{"query":"lofi"}`)
	if err == nil || !strings.Contains(err.Error(), "unknown tool") {
		t.Errorf("expected unknown tool error, got %v", err)
	}
	if err := tb.Close(); err != nil {
		t.Errorf("Close on empty toolbox: %v", err)
	}
}
