package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/vthunder/companion/internal/logging"
	"github.com/vthunder/companion/internal/mcp"
)

// MaxTurns bounds the completion/tool-call rounds of a single Run
const MaxTurns = 10

// ErrMaxTurns is returned when the model keeps calling tools past MaxTurns
var ErrMaxTurns = errors.New("agent: too many tool rounds")

// ToolCaller is the tool surface an agent needs; *mcp.Toolbox implements it
type ToolCaller interface {
	Tools() []mcp.ToolDef
	Call(ctx context.Context, name, argsJSON string) (string, error)
	Close() error
}

// Agent is a chat-completion session with tool access. History accumulates
// across Run calls until the agent is closed.
type Agent struct {
	id      string
	client  *openai.Client
	model   string
	stream  bool
	tools   ToolCaller
	history []openai.ChatCompletionMessage
}

// NewAgent creates an agent with systemPrompt as its first message
func NewAgent(client *openai.Client, model, systemPrompt string, tools ToolCaller, stream bool) *Agent {
	a := &Agent{
		id:     uuid.NewString(),
		client: client,
		model:  model,
		stream: stream,
		tools:  tools,
	}
	if systemPrompt != "" {
		a.history = append(a.history, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	return a
}

// ID identifies the agent in logs
func (a *Agent) ID() string {
	return a.id
}

// Run sends input as a user message and drives the model until it answers
// without requesting tools. Every event is passed to emit in arrival order.
func (a *Agent) Run(ctx context.Context, input string, emit func(Event)) error {
	a.history = append(a.history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: input,
	})

	for turn := 0; turn < MaxTurns; turn++ {
		var (
			msg openai.ChatCompletionMessage
			err error
		)
		if a.stream {
			msg, err = a.completeStream(ctx, emit)
		} else {
			msg, err = a.complete(ctx, emit)
		}
		if err != nil {
			return err
		}
		a.history = append(a.history, msg)

		if len(msg.ToolCalls) == 0 {
			return nil
		}

		for _, call := range msg.ToolCalls {
			emit(ToolCall{ID: call.ID, Name: call.Function.Name, Arguments: call.Function.Arguments})

			out, err := a.tools.Call(ctx, call.Function.Name, call.Function.Arguments)
			content := out
			if err != nil {
				content = "Error: " + err.Error()
			}
			emit(ToolResult{ID: call.ID, Name: call.Function.Name, Content: out, Err: err})

			a.history = append(a.history, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    content,
				Name:       call.Function.Name,
				ToolCallID: call.ID,
			})
		}
	}
	return ErrMaxTurns
}

// Close releases the tool server connections
func (a *Agent) Close() error {
	return a.tools.Close()
}

func (a *Agent) request() openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: a.history,
	}
	for _, def := range a.tools.Tools() {
		req.Tools = append(req.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		})
	}
	return req
}

func (a *Agent) complete(ctx context.Context, emit func(Event)) (openai.ChatCompletionMessage, error) {
	resp, err := a.client.CreateChatCompletion(ctx, a.request())
	if err != nil {
		return openai.ChatCompletionMessage{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return openai.ChatCompletionMessage{}, fmt.Errorf("chat completion: no choices")
	}

	msg := resp.Choices[0].Message
	if msg.Content != "" {
		emit(AssistantMessage{Text: msg.Content})
	}
	msg.Role = openai.ChatMessageRoleAssistant
	return msg, nil
}

func (a *Agent) completeStream(ctx context.Context, emit func(Event)) (openai.ChatCompletionMessage, error) {
	stream, err := a.client.CreateChatCompletionStream(ctx, a.request())
	if err != nil {
		return openai.ChatCompletionMessage{}, fmt.Errorf("chat completion stream: %w", err)
	}
	defer stream.Close()

	var text strings.Builder
	calls := make(map[int]*openai.ToolCall)
	var order []int

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return openai.ChatCompletionMessage{}, fmt.Errorf("chat completion stream: %w", err)
		}

		for _, choice := range resp.Choices {
			if d := choice.Delta.Content; d != "" {
				text.WriteString(d)
				emit(ContentDelta{Text: d})
			}
			// Tool call arguments arrive in pieces keyed by index
			for _, tc := range choice.Delta.ToolCalls {
				idx := 0
				if tc.Index != nil {
					idx = *tc.Index
				}
				acc, ok := calls[idx]
				if !ok {
					acc = &openai.ToolCall{Type: openai.ToolTypeFunction}
					calls[idx] = acc
					order = append(order, idx)
				}
				if tc.ID != "" {
					acc.ID = tc.ID
				}
				if tc.Function.Name != "" {
					acc.Function.Name = tc.Function.Name
				}
				acc.Function.Arguments += tc.Function.Arguments
			}
		}
	}

	msg := openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: text.String(),
	}
	for _, idx := range order {
		call := *calls[idx]
		if call.ID == "" {
			call.ID = fmt.Sprintf("call_%d", idx)
		}
		msg.ToolCalls = append(msg.ToolCalls, call)
	}
	logging.Debug("llm", "agent %s turn: %d chars, %d tool calls", a.id[:8], text.Len(), len(msg.ToolCalls))
	return msg, nil
}
