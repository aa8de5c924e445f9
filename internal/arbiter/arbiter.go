// Package arbiter runs the main loop: it races user input against monitor
// notifications, gates every tool action behind explicit consent and routes
// lines to actions or the dialogue according to the current mode.
package arbiter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/vthunder/companion/internal/actions"
	"github.com/vthunder/companion/internal/logging"
	"github.com/vthunder/companion/internal/moodlog"
)

// Mode is the post-consent interaction mode
type Mode int

const (
	ModeMenu Mode = iota
	ModeChat
)

func (m Mode) String() string {
	if m == ModeChat {
		return "CHAT"
	}
	return "MENU"
}

// Pending marks a line that is expected next
type Pending int

const (
	PendingNone Pending = iota
	AwaitingMusicQuery
)

// Session is the arbiter's state. There is one per run and only the arbiter
// goroutine touches it.
type Session struct {
	Mode           Mode
	ConsentGranted bool
	Pending        Pending

	conversation Conversation
}

func (s *Session) state() string {
	if !s.ConsentGranted {
		return "PRE_CONSENT"
	}
	return s.Mode.String()
}

// Conversation is the long-lived dialogue. *executive.Conversation
// implements it.
type Conversation interface {
	Send(ctx context.Context, text string, w io.Writer) error
	Close() error
}

// ConversationOpener opens a brand-new Conversation
type ConversationOpener func(ctx context.Context) (Conversation, error)

// Actions are the single-tool actions. *actions.Handlers implements it.
type Actions interface {
	PlayMusic(ctx context.Context, query string) (actions.Outcome, error)
	OpenPuzzle(ctx context.Context) (actions.Outcome, error)
	PlayMindAudio(ctx context.Context, index int, keyword string) (actions.Outcome, error)
}

// Monitor produces notifications until ctx is cancelled. *monitor.Monitor
// implements it.
type Monitor interface {
	Run(ctx context.Context, out chan<- string)
}

// Journal records consent answers, alerts and mode changes.
// *journal.Journal implements it.
type Journal interface {
	LogConsent(answer string, granted bool) error
	LogAlert(text string) error
	LogMode(from, to string) error
}

// MoodHistory supplies recent negative readings for the chat persona.
// *moodlog.Store implements it.
type MoodHistory interface {
	RecentAlerts(ctx context.Context, n int) ([]moodlog.Reading, error)
}

// Options wires the arbiter. In, Out, Open and Actions are required.
type Options struct {
	In      io.Reader
	Out     io.Writer
	Open    ConversationOpener
	Actions Actions
	Monitor Monitor     // optional
	Journal Journal     // optional
	Moods   MoodHistory // optional
}

// Arbiter owns the Session and the event loop
type Arbiter struct {
	in      io.Reader
	out     io.Writer
	open    ConversationOpener
	actions Actions
	monitor Monitor
	journal Journal
	moods   MoodHistory

	s Session
}

// New creates an arbiter in the pre-consent state
func New(opts Options) *Arbiter {
	return &Arbiter{
		in:      opts.In,
		out:     opts.Out,
		open:    opts.Open,
		actions: opts.Actions,
		monitor: opts.Monitor,
		journal: opts.Journal,
		moods:   opts.Moods,
	}
}

// Session returns a copy of the current state
func (a *Arbiter) Session() Session {
	return a.s
}

// Run processes input and notifications until ctx is cancelled or the input
// ends. Nothing a handler does can end the loop.
func (a *Arbiter) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	notes := make(chan string, 16)
	var wg sync.WaitGroup
	if a.monitor != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.monitor.Run(runCtx, notes)
		}()
	}

	// The reader may stay blocked in Read after shutdown; it exits at the
	// next line or EOF.
	lines := make(chan string)
	go readLines(a.in, lines, runCtx.Done())

	logging.Info("arbiter", "waiting for input")
	defer func() {
		cancel()
		wg.Wait()
		a.closeConversation()
		logging.Info("arbiter", "stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			logging.Info("arbiter", "interrupted")
			return nil
		case msg := <-notes:
			a.notify(msg)
		case line, ok := <-lines:
			if !ok {
				logging.Info("arbiter", "input closed")
				return nil
			}
			a.handleLine(runCtx, line)
		}
	}
}

func readLines(r io.Reader, lines chan<- string, done <-chan struct{}) {
	defer close(lines)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		select {
		case lines <- sc.Text():
		case <-done:
			return
		}
	}
	if err := sc.Err(); err != nil {
		logging.Info("arbiter", "read input: %v", err)
	}
}

// notify prints a notification. It never changes mode or consent.
func (a *Arbiter) notify(msg string) {
	if strings.HasSuffix(msg, "\n") {
		fmt.Fprint(a.out, msg)
	} else {
		fmt.Fprintln(a.out, msg)
	}
	if a.journal != nil {
		journalErr(a.journal.LogAlert(strings.TrimSpace(msg)))
	}
}

func journalErr(err error) {
	if err != nil {
		logging.Info("arbiter", "journal: %v", err)
	}
}

func (a *Arbiter) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *Arbiter) println(s string) {
	fmt.Fprintln(a.out, s)
}

func (a *Arbiter) setMode(m Mode) {
	from := a.s.state()
	a.s.Mode = m
	if a.journal != nil && from != a.s.state() {
		journalErr(a.journal.LogMode(from, a.s.state()))
	}
}

// openConversation replaces any open conversation with a new one. The old
// one is closed first so two never coexist.
func (a *Arbiter) openConversation(ctx context.Context) error {
	a.closeConversation()
	conv, err := a.open(ctx)
	if err != nil {
		return err
	}
	a.s.conversation = conv
	return nil
}

func (a *Arbiter) closeConversation() {
	if a.s.conversation == nil {
		return
	}
	if err := a.s.conversation.Close(); err != nil {
		logging.Info("arbiter", "close conversation: %v", err)
	}
	a.s.conversation = nil
}
