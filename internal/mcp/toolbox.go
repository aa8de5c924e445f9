package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/vthunder/companion/internal/config"
)

// Toolbox is the set of server sessions owned by one agent context. It is
// opened together with the context and closed with it.
type Toolbox struct {
	clients []*ProxyClient
	tools   []ToolDef
	route   map[string]*ProxyClient
}

// OpenToolbox connects to every configured server and discovers its tools.
// A server that fails to start is logged and skipped; it is an error only
// when no server could be reached.
func OpenToolbox(ctx context.Context, servers []config.ServerConfig) (*Toolbox, error) {
	tb := &Toolbox{route: make(map[string]*ProxyClient)}

	var errs []error
	for _, srv := range servers {
		client, err := Connect(ctx, srv)
		if err != nil {
			log.Printf("[mcp] Failed to start %s: %v", srv.Name, err)
			errs = append(errs, err)
			continue
		}

		tools, err := client.DiscoverTools(ctx)
		if err != nil {
			log.Printf("[mcp:%s] Failed to discover tools: %v", srv.Name, err)
			client.Close()
			errs = append(errs, err)
			continue
		}

		for _, def := range tools {
			if owner, dup := tb.route[def.Name]; dup {
				log.Printf("[mcp:%s] Tool %s already provided by %s, ignoring", srv.Name, def.Name, owner.Name())
				continue
			}
			tb.route[def.Name] = client
			tb.tools = append(tb.tools, def)
		}
		tb.clients = append(tb.clients, client)
	}

	if len(tb.clients) == 0 {
		return nil, fmt.Errorf("no tool server available: %w", errors.Join(errs...))
	}
	return tb, nil
}

// Tools returns the discovered tool definitions
func (t *Toolbox) Tools() []ToolDef {
	return t.tools
}

// Call routes a tool call with JSON-encoded arguments to its server
func (t *Toolbox) Call(ctx context.Context, name, argsJSON string) (string, error) {
	client, ok := t.route[name]
	if !ok {
		return "", fmt.Errorf("unknown tool: %s", name)
	}

	args := make(map[string]any)
	if argsJSON != "" {
		if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
			return "", fmt.Errorf("parse arguments for %s: %w", name, err)
		}
	}
	return client.CallTool(ctx, name, args)
}

// Close closes every server session, returning the joined errors
func (t *Toolbox) Close() error {
	var errs []error
	for _, c := range t.clients {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", c.Name(), err))
		}
	}
	t.clients = nil
	return errors.Join(errs...)
}
