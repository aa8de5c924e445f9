// Package llm runs chat-completion agents that can call MCP tools.
package llm

import "context"

// Event is one item produced while an agent handles an input. The set of
// concrete types is closed: ContentDelta, AssistantMessage, ToolCall,
// ToolResult.
type Event interface {
	isEvent()
}

// ContentDelta is a streamed fragment of assistant text
type ContentDelta struct {
	Text string
}

// AssistantMessage is a complete assistant message from a non-streaming turn
type AssistantMessage struct {
	Text string
}

// ToolCall is emitted before a tool is invoked
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolResult carries what a tool returned, or the error it failed with
type ToolResult struct {
	ID      string
	Name    string
	Content string
	Err     error
}

func (ContentDelta) isEvent()     {}
func (AssistantMessage) isEvent() {}
func (ToolCall) isEvent()         {}
func (ToolResult) isEvent()       {}

// AssistantText returns the user-visible text carried by ev, if any
func AssistantText(ev Event) (string, bool) {
	switch e := ev.(type) {
	case ContentDelta:
		return e.Text, e.Text != ""
	case AssistantMessage:
		return e.Text, e.Text != ""
	}
	return "", false
}

// Session is one agent context: a system prompt, its message history and
// its tool server connections
type Session interface {
	Run(ctx context.Context, input string, emit func(Event)) error
	Close() error
}
