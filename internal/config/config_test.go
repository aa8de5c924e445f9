package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeAgent(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write agent file: %v", err)
	}
	return path
}

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

const agentJSON = `{
  "model": "Qwen/Qwen2.5-7B-Instruct",
  "servers": [
    {"type": "stdio", "config": {"command": "media-mcp", "env": {"MEDIA_DIR": "/tmp/media"}}},
    {"type": "http", "config": {"url": "http://127.0.0.1:8002/mcp"}}
  ]
}`

func TestParse_Defaults(t *testing.T) {
	path := writeAgent(t, "agent.json", agentJSON)

	cfg, err := Parse(envFrom(nil), path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Model != "Qwen/Qwen2.5-7B-Instruct" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.PollInterval != DefaultPollInterval {
		t.Errorf("PollInterval = %v, want %v", cfg.PollInterval, DefaultPollInterval)
	}
	if cfg.Profile != "off" {
		t.Errorf("Profile = %q, want off", cfg.Profile)
	}
	want := []string{"angry", "disgust", "fear", "sad"}
	if !reflect.DeepEqual(cfg.NegativeEmotions, want) {
		t.Errorf("NegativeEmotions = %v, want %v", cfg.NegativeEmotions, want)
	}
	if len(cfg.Servers) != 2 {
		t.Fatalf("expected 2 servers, got %d", len(cfg.Servers))
	}
	if cfg.Servers[0].Name != "server-1" || cfg.Servers[0].IsHTTP() {
		t.Errorf("server 1 = %+v", cfg.Servers[0])
	}
	if !cfg.Servers[1].IsHTTP() {
		t.Errorf("server 2 should be http: %+v", cfg.Servers[1])
	}
	if cfg.Servers[0].Config.Env["MEDIA_DIR"] != "/tmp/media" {
		t.Errorf("env not parsed: %+v", cfg.Servers[0].Config.Env)
	}
}

func TestParse_EnvOverrides(t *testing.T) {
	path := writeAgent(t, "agent.json", agentJSON)

	cfg, err := Parse(envFrom(map[string]string{
		"EMOTION_POLL_SEC":  "30",
		"BAD_EMOTIONS":      "Sad, FEAR,, sad ",
		"LOG_EMOTION_DEBUG": "1",
		"LOG_TOOL_DEBUG":    "1",
		"LLM_BASE_URL":      "http://llm:9000/v1/",
		"HF_TOKEN":          "hf_x",
		"STATE_PATH":        "/var/lib/companion",
		"PROFILE":           "Tools",
	}), path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Errorf("PollInterval = %v", cfg.PollInterval)
	}
	if !reflect.DeepEqual(cfg.NegativeEmotions, []string{"fear", "sad"}) {
		t.Errorf("NegativeEmotions = %v", cfg.NegativeEmotions)
	}
	if !cfg.EmotionDebug || !cfg.ToolDebug {
		t.Error("expected debug toggles on")
	}
	if cfg.BaseURL != "http://llm:9000/v1" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.APIKey != "hf_x" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.StatePath != "/var/lib/companion" {
		t.Errorf("StatePath = %q", cfg.StatePath)
	}
	if cfg.Profile != "tools" {
		t.Errorf("Profile = %q", cfg.Profile)
	}
}

func TestParse_YAMLWithMCPServers(t *testing.T) {
	path := writeAgent(t, "agent.yaml", `
model: llama3
endpointUrl: http://localhost:11434/v1
mcpServers:
  puzzle:
    command: puzzle-mcp
  media:
    type: http
    url: http://127.0.0.1:8002/mcp
`)
	cfg, err := Parse(envFrom(nil), path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.BaseURL != "http://localhost:11434/v1" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if len(cfg.Servers) != 2 || cfg.Servers[0].Name != "media" || cfg.Servers[1].Name != "puzzle" {
		t.Fatalf("servers = %+v", cfg.Servers)
	}
	if !cfg.Servers[0].IsHTTP() || cfg.Servers[1].IsHTTP() {
		t.Errorf("transport detection wrong: %+v", cfg.Servers)
	}
}

func TestParse_FatalErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		env     map[string]string
		wantErr string
	}{
		{"missing model", `{"servers":[{"config":{"command":"x"}}]}`, nil, "model is required"},
		{"no servers", `{"model":"m"}`, nil, "at least one server"},
		{"bad poll", agentJSON, map[string]string{"EMOTION_POLL_SEC": "soon"}, "EMOTION_POLL_SEC"},
		{"zero poll", agentJSON, map[string]string{"EMOTION_POLL_SEC": "0"}, "EMOTION_POLL_SEC"},
		{"malformed", `{"model": [`, nil, "parse agent config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeAgent(t, "agent.json", tt.body)
			_, err := Parse(envFrom(tt.env), path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse_MissingFile(t *testing.T) {
	_, err := Parse(envFrom(nil), filepath.Join(t.TempDir(), "nope.json"))
	if err == nil || !strings.Contains(err.Error(), "read agent config") {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestIsNegative(t *testing.T) {
	cfg := &Config{NegativeEmotions: ParseEmotionSet("sad,angry")}
	for label, want := range map[string]bool{"sad": true, " SAD ": true, "angry": true, "happy": false, "": false} {
		if got := cfg.IsNegative(label); got != want {
			t.Errorf("IsNegative(%q) = %v, want %v", label, got, want)
		}
	}
}
