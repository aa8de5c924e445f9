package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vthunder/companion/internal/config"
)

const (
	clientName    = "companion"
	clientVersion = "0.1.0"
)

// ToolDef describes a tool exposed by a connected server
type ToolDef struct {
	Server      string
	Name        string
	Description string
	Parameters  json.RawMessage // JSON schema of the arguments object
}

// ProxyClient is a live MCP session with one tool server
type ProxyClient struct {
	name   string
	client *mcpclient.Client
	mu     sync.Mutex // serializes calls on the session
}

// Connect starts (stdio) or dials (http) a tool server and runs the MCP
// initialize handshake
func Connect(ctx context.Context, cfg config.ServerConfig) (*ProxyClient, error) {
	var (
		c   *mcpclient.Client
		err error
	)
	if cfg.IsHTTP() {
		c, err = mcpclient.NewStreamableHttpClient(cfg.Config.URL)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", cfg.Name, err)
		}
		if err := c.Start(ctx); err != nil {
			c.Close()
			return nil, fmt.Errorf("start %s: %w", cfg.Name, err)
		}
	} else {
		if cfg.Config.Command == "" {
			return nil, fmt.Errorf("server %s: command is required for stdio", cfg.Name)
		}
		env := make([]string, 0, len(cfg.Config.Env))
		for k, v := range cfg.Config.Env {
			env = append(env, fmt.Sprintf("%s=%s", k, v))
		}
		c, err = mcpclient.NewStdioMCPClient(cfg.Config.Command, env, cfg.Config.Args...)
		if err != nil {
			return nil, fmt.Errorf("start %s: %w", cfg.Config.Command, err)
		}
	}

	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{
		Name:    clientName,
		Version: clientVersion,
	}
	if _, err := c.Initialize(ctx, req); err != nil {
		c.Close()
		return nil, fmt.Errorf("initialize %s: %w", cfg.Name, err)
	}

	return &ProxyClient{name: cfg.Name, client: c}, nil
}

// Name returns the configured server name
func (c *ProxyClient) Name() string {
	return c.name
}

// DiscoverTools lists all tools available from the server
func (c *ProxyClient) DiscoverTools(ctx context.Context) ([]ToolDef, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result, err := c.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("tools/list: %w", err)
	}

	defs := make([]ToolDef, 0, len(result.Tools))
	for _, t := range result.Tools {
		params, err := toolParameters(t)
		if err != nil {
			log.Printf("[mcp:%s] Skipping tool %s: %v", c.name, t.Name, err)
			continue
		}
		defs = append(defs, ToolDef{
			Server:      c.name,
			Name:        t.Name,
			Description: t.Description,
			Parameters:  params,
		})
	}
	return defs, nil
}

// CallTool calls a named tool and returns its text content. A tool-level
// error comes back as a Go error carrying the tool's message.
func (c *ProxyClient) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := c.client.CallTool(ctx, req)
	if err != nil {
		return "", fmt.Errorf("tools/call %s: %w", name, err)
	}

	text := contentText(result.Content)
	if result.IsError {
		if text == "" {
			text = "tool returned error"
		}
		return "", fmt.Errorf("%s", text)
	}
	return text, nil
}

// Close ends the session and stops a stdio server process
func (c *ProxyClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client.Close()
}

func contentText(content []mcp.Content) string {
	var parts []string
	for _, block := range content {
		switch v := block.(type) {
		case mcp.TextContent:
			parts = append(parts, v.Text)
		case *mcp.TextContent:
			parts = append(parts, v.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// toolParameters returns an object schema usable as function parameters
func toolParameters(t mcp.Tool) (json.RawMessage, error) {
	raw := t.RawInputSchema
	if len(raw) == 0 {
		var err error
		raw, err = json.Marshal(t.InputSchema)
		if err != nil {
			return nil, err
		}
	}

	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("parse input schema: %w", err)
	}
	if schema == nil {
		schema = make(map[string]any)
	}
	if _, ok := schema["type"]; !ok {
		schema["type"] = "object"
	}
	if props, ok := schema["properties"]; !ok || props == nil {
		schema["properties"] = map[string]any{}
	}
	return json.Marshal(schema)
}
