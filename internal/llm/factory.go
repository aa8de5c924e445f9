package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/vthunder/companion/internal/config"
	"github.com/vthunder/companion/internal/logging"
	"github.com/vthunder/companion/internal/mcp"
)

// Factory opens agent sessions against the configured backend and tool
// servers. Each Open creates brand-new server connections.
type Factory struct {
	cfg    *config.Config
	client *openai.Client
}

// NewFactory builds the OpenAI-compatible client once; it holds no
// conversation state and is shared by every session
func NewFactory(cfg *config.Config) *Factory {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	return &Factory{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientCfg),
	}
}

// Open connects the tool servers and returns a fresh agent session
func (f *Factory) Open(ctx context.Context, systemPrompt string) (Session, error) {
	tb, err := mcp.OpenToolbox(ctx, f.cfg.Servers)
	if err != nil {
		return nil, fmt.Errorf("open tools: %w", err)
	}
	agent := NewAgent(f.client, f.cfg.Model, systemPrompt, tb, f.cfg.Stream)
	logging.Debug("llm", "opened agent %s with %d tools", agent.ID(), len(tb.Tools()))
	return agent, nil
}
