// Package config builds the process configuration once at startup. The result
// is read by every component and never mutated after Load returns.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vthunder/companion/internal/logging"
)

const (
	DefaultAgentPath        = "agent.json"
	DefaultBaseURL          = "http://localhost:8000/api"
	DefaultPollInterval     = 600 * time.Second
	DefaultNegativeEmotions = "angry, disgust, fear, sad"
	DefaultStatePath        = "state"
)

// ServerConfig describes one MCP tool server the agent connects to
type ServerConfig struct {
	Name   string       `yaml:"name"`
	Type   string       `yaml:"type"` // "stdio" (default) or "http"
	Config ServerParams `yaml:"config"`
}

// ServerParams holds the transport-specific settings of a server entry
type ServerParams struct {
	Command string            `yaml:"command"`
	Args    []string          `yaml:"args"`
	Env     map[string]string `yaml:"env"`
	URL     string            `yaml:"url"`
}

// IsHTTP reports whether the server is reached over streamable HTTP
func (s ServerConfig) IsHTTP() bool {
	return s.Type == "http" || (s.Config.Command == "" && s.Config.URL != "")
}

// mcpServerEntry is a single entry in the .mcp.json style "mcpServers" map
type mcpServerEntry struct {
	Type    string            `yaml:"type"`
	URL     string            `yaml:"url"`
	Command string            `yaml:"command"`
	Args    []string          `yaml:"args"`
	Env     map[string]string `yaml:"env"`
}

// agentFile is the on-disk agent description. JSON is a subset of YAML, so
// both agent.json and agent.yaml parse with the same decoder.
type agentFile struct {
	Model       string                    `yaml:"model"`
	Provider    string                    `yaml:"provider"`
	EndpointURL string                    `yaml:"endpointUrl"`
	Servers     []ServerConfig            `yaml:"servers"`
	MCPServers  map[string]mcpServerEntry `yaml:"mcpServers"`
}

// Config is the immutable process configuration
type Config struct {
	Model   string
	BaseURL string
	APIKey  string
	Stream  bool // stream completions; LLM_STREAM=0 turns it off
	Servers []ServerConfig

	PollInterval     time.Duration
	NegativeEmotions []string // lowercased, sorted
	EmotionDebug     bool
	ToolDebug        bool

	StatePath string
	Profile   string // PROFILE: off, calls or tools
}

// IsNegative reports whether label is in the configured negative-emotion set
func (c *Config) IsNegative(label string) bool {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return false
	}
	for _, e := range c.NegativeEmotions {
		if e == label {
			return true
		}
	}
	return false
}

// Options control where Load looks for its inputs
type Options struct {
	EnvFile   string // optional .env path, default ".env"
	AgentPath string // overrides AGENT_CONFIG when set
}

// Load reads the optional .env file, then builds the configuration from the
// environment and the agent file. Any error is fatal for the caller.
func Load(opts Options) (*Config, error) {
	LoadEnvFile(opts.EnvFile)
	return Parse(os.Getenv, opts.AgentPath)
}

// LoadEnvFile loads path (default ".env") into the environment if it exists.
// Variables already set are not overridden.
func LoadEnvFile(path string) {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		logging.Info("config", "No %s file found, using environment variables", path)
	} else {
		logging.Info("config", "Loaded %s", path)
	}
}

// Parse builds a Config from getenv and the agent file at agentPath (or
// AGENT_CONFIG, or agent.json).
func Parse(getenv func(string) string, agentPath string) (*Config, error) {
	if agentPath == "" {
		agentPath = getenv("AGENT_CONFIG")
	}
	if agentPath == "" {
		agentPath = DefaultAgentPath
	}

	agent, err := loadAgentFile(agentPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Model:        agent.Model,
		BaseURL:      DefaultBaseURL,
		Stream:       getenv("LLM_STREAM") != "0",
		Servers:      agent.servers(),
		PollInterval: DefaultPollInterval,
		EmotionDebug: getenv("LOG_EMOTION_DEBUG") == "1",
		ToolDebug:    getenv("LOG_TOOL_DEBUG") == "1",
		StatePath:    DefaultStatePath,
	}
	if agent.EndpointURL != "" {
		cfg.BaseURL = agent.EndpointURL
	}
	if v := getenv("LLM_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	for _, key := range []string{"LLM_API_KEY", "HF_TOKEN", "OPENAI_API_KEY"} {
		if v := getenv(key); v != "" {
			cfg.APIKey = v
			break
		}
	}

	if v := getenv("EMOTION_POLL_SEC"); v != "" {
		secs, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("EMOTION_POLL_SEC must be a positive integer, got %q", v)
		}
		cfg.PollInterval = time.Duration(secs) * time.Second
	}

	bad := getenv("BAD_EMOTIONS")
	if bad == "" {
		bad = DefaultNegativeEmotions
	}
	cfg.NegativeEmotions = ParseEmotionSet(bad)

	if v := getenv("STATE_PATH"); v != "" {
		cfg.StatePath = v
	}
	cfg.Profile = strings.ToLower(strings.TrimSpace(getenv("PROFILE")))
	if cfg.Profile == "" {
		cfg.Profile = "off"
	}

	if cfg.Model == "" {
		return nil, fmt.Errorf("agent config %s: model is required", agentPath)
	}
	if len(cfg.Servers) == 0 {
		return nil, fmt.Errorf("agent config %s: at least one server is required", agentPath)
	}
	return cfg, nil
}

// ParseEmotionSet splits a comma-separated label list into a lowercased,
// de-duplicated, sorted slice
func ParseEmotionSet(s string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, part := range strings.Split(s, ",") {
		e := strings.ToLower(strings.TrimSpace(part))
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

func loadAgentFile(path string) (*agentFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read agent config: %w", err)
	}
	var a agentFile
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse agent config %s: %w", path, err)
	}
	return &a, nil
}

// servers merges the "servers" list with any .mcp.json style "mcpServers" map
func (a *agentFile) servers() []ServerConfig {
	out := make([]ServerConfig, 0, len(a.Servers)+len(a.MCPServers))
	for i, s := range a.Servers {
		if s.Name == "" {
			s.Name = fmt.Sprintf("server-%d", i+1)
		}
		out = append(out, s)
	}

	names := make([]string, 0, len(a.MCPServers))
	for name := range a.MCPServers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		e := a.MCPServers[name]
		out = append(out, ServerConfig{
			Name: name,
			Type: e.Type,
			Config: ServerParams{
				Command: e.Command,
				Args:    e.Args,
				Env:     e.Env,
				URL:     e.URL,
			},
		})
	}
	return out
}
