package executive

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/vthunder/companion/internal/llm"
	"github.com/vthunder/companion/internal/logging"
	"github.com/vthunder/companion/internal/profiling"
)

// ConversationPrompt is the system prompt of the long-lived dialogue session
const ConversationPrompt = "You are an agent - please keep going until the user’s query is completely resolved."

// Conversation is the dialogue context kept alive across turns until it is
// closed. Only the arbiter goroutine uses it.
type Conversation struct {
	mu        sync.Mutex
	id        string
	sess      llm.Session
	toolDebug bool
	closed    bool
}

// OpenConversation opens a new dialogue session with ConversationPrompt
func OpenConversation(ctx context.Context, factory SessionFactory, toolDebug bool) (*Conversation, error) {
	sess, err := factory.Open(ctx, ConversationPrompt)
	if err != nil {
		return nil, fmt.Errorf("open conversation: %w", err)
	}
	c := &Conversation{
		id:        uuid.NewString(),
		sess:      sess,
		toolDebug: toolDebug,
	}
	logging.Debug("conversation", "opened %s", c.id)
	return c, nil
}

// ID returns the conversation ID used in logs
func (c *Conversation) ID() string {
	return c.id
}

// Send runs one user turn and writes the assistant text to w as it arrives,
// followed by a newline. Tool chatter is never written.
func (c *Conversation) Send(ctx context.Context, text string, w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("conversation %s is closed", c.id)
	}

	done := profiling.Get().Start(profiling.LevelCalls, c.id, "dialogue_turn")
	err := c.sess.Run(ctx, text, observe(c.id, c.toolDebug, func(s string) {
		io.WriteString(w, s)
	}))
	io.WriteString(w, "\n")
	done(err, nil)
	return err
}

// Close ends the session and releases its tool connections. Safe to call
// more than once.
func (c *Conversation) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	logging.Debug("conversation", "closing %s", c.id)
	return c.sess.Close()
}
