package executive

import (
	"bytes"
	"context"
	"testing"

	"github.com/vthunder/companion/internal/llm"
)

func TestConversation_SendStreamsAssistantText(t *testing.T) {
	f := &fakeFactory{script: scripted(
		llm.ContentDelta{Text: "我在這裡，"},
		llm.ToolCall{Name: "play_song"},
		llm.ToolResult{Name: "play_song", Content: "secret"},
		llm.ContentDelta{Text: "想聊聊嗎？"},
	)}
	c, err := OpenConversation(context.Background(), f, false)
	if err != nil {
		t.Fatalf("OpenConversation failed: %v", err)
	}
	if f.opened[0].prompt != ConversationPrompt {
		t.Errorf("prompt = %q", f.opened[0].prompt)
	}

	var out bytes.Buffer
	if err := c.Send(context.Background(), "hi", &out); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if out.String() != "我在這裡，想聊聊嗎？\n" {
		t.Errorf("output = %q", out.String())
	}

	// Same session keeps the dialogue
	c.Send(context.Background(), "again", &out)
	if got := f.opened[0].inputs; len(got) != 2 || len(f.opened) != 1 {
		t.Errorf("expected one session with 2 inputs, got %d sessions, inputs %v", len(f.opened), got)
	}
}

func TestConversation_Close(t *testing.T) {
	f := &fakeFactory{script: scripted()}
	c, err := OpenConversation(context.Background(), f, false)
	if err != nil {
		t.Fatalf("OpenConversation failed: %v", err)
	}
	if c.ID() == "" {
		t.Error("expected a conversation ID")
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	c.Close()
	if f.opened[0].closed != 1 {
		t.Errorf("session closed %d times", f.opened[0].closed)
	}
	if err := c.Send(context.Background(), "late", &bytes.Buffer{}); err == nil {
		t.Error("expected Send on closed conversation to fail")
	}
}
