package executive

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vthunder/companion/internal/llm"
	"github.com/vthunder/companion/internal/logging"
	"github.com/vthunder/companion/internal/profiling"
	"github.com/vthunder/companion/internal/tailjson"
)

// StatelessPrompt is the system prompt of every Invoker context
const StatelessPrompt = "You are a stateless tool runner. " +
	"Never rely on prior conversation or assumed state. " +
	"For every request you MUST call the specified MCP tool and base your final single-line JSON strictly on the tool's raw response."

// SessionFactory opens a brand-new agent session. *llm.Factory implements it.
type SessionFactory interface {
	Open(ctx context.Context, systemPrompt string) (llm.Session, error)
}

// Result is what one stateless invocation produced. OK means a trailing JSON
// object was found; whether the action succeeded is up to the caller.
type Result struct {
	RawText string
	JSON    map[string]any
	OK      bool
}

// Invoker runs each instruction in its own throwaway session. It knows
// nothing about individual tools.
type Invoker struct {
	factory   SessionFactory
	prompt    string
	toolDebug bool
}

// NewInvoker creates an invoker using StatelessPrompt
func NewInvoker(factory SessionFactory, toolDebug bool) *Invoker {
	return NewInvokerWithPrompt(factory, StatelessPrompt, toolDebug)
}

// NewInvokerWithPrompt creates an invoker whose sessions start from prompt
func NewInvokerWithPrompt(factory SessionFactory, prompt string, toolDebug bool) *Invoker {
	return &Invoker{factory: factory, prompt: prompt, toolDebug: toolDebug}
}

// Invoke opens a fresh session, runs instruction, collects the assistant
// text and disposes of the session. Close errors are logged, not returned.
func (inv *Invoker) Invoke(ctx context.Context, instruction string) (res Result, err error) {
	id := uuid.NewString()
	done := profiling.Get().Start(profiling.LevelCalls, id, "invoke")
	defer func() { done(err, map[string]any{"json": res.OK}) }()

	sess, err := inv.factory.Open(ctx, inv.prompt)
	if err != nil {
		return Result{}, fmt.Errorf("open session: %w", err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			logging.Info("invoker", "session close: %v", err)
		}
	}()

	var b strings.Builder
	err = sess.Run(ctx, instruction, observe(id, inv.toolDebug, func(s string) {
		b.WriteString(s)
	}))
	res = Result{RawText: strings.TrimSpace(b.String())}
	if err != nil {
		return res, err
	}
	if obj := tailjson.Extract(res.RawText); obj != nil {
		res.JSON = obj
		res.OK = true
	}
	return res, nil
}

// observe returns an event callback that passes assistant text to text.
// Tool events only reach the trace log and, at LevelTools, the profiler.
func observe(id string, toolDebug bool, text func(string)) func(llm.Event) {
	pending := make(map[string]func(error, map[string]any))
	prof := profiling.Get()
	return func(ev llm.Event) {
		switch e := ev.(type) {
		case llm.ToolCall:
			logging.Trace(toolDebug, "tool", "call %s args=%s", e.Name, logging.Truncate(e.Arguments, 200))
			pending[e.ID] = prof.Start(profiling.LevelTools, id, "tool:"+e.Name)
		case llm.ToolResult:
			if e.Err != nil {
				logging.Trace(toolDebug, "tool", "%s failed: %v", e.Name, e.Err)
			} else {
				logging.Trace(toolDebug, "tool", "%s content=%s", e.Name, logging.Truncate(e.Content, 200))
			}
			if done, ok := pending[e.ID]; ok {
				delete(pending, e.ID)
				done(e.Err, nil)
			}
		default:
			if s, ok := llm.AssistantText(ev); ok {
				text(s)
			}
		}
	}
}
