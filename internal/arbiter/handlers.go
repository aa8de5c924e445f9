package arbiter

import (
	"context"
	"fmt"
	"strings"

	"github.com/vthunder/companion/internal/actions"
	"github.com/vthunder/companion/internal/command"
	"github.com/vthunder/companion/internal/intent"
	"github.com/vthunder/companion/internal/logging"
)

func (a *Arbiter) handleLine(ctx context.Context, line string) {
	cmd := command.Parse(line)
	if cmd.Raw == "" {
		return
	}

	// Before consent only /ok and /no are acted on, and neither prints
	// anything except the menu once consent is given.
	if !a.s.ConsentGranted {
		switch cmd.Kind {
		case command.OK:
			a.grantConsent(ctx)
		case command.No:
			a.recordDecline()
		}
		return
	}

	if cmd.Kind == command.No {
		a.recordDecline()
	}

	switch a.s.Mode {
	case ModeMenu:
		a.handleMenu(ctx, cmd)
	case ModeChat:
		a.handleChat(ctx, cmd)
	}
}

func (a *Arbiter) grantConsent(ctx context.Context) {
	if err := a.openConversation(ctx); err != nil {
		logging.Info("arbiter", "open conversation: %v", err)
		a.printf(openErr, err)
		return
	}
	if a.journal != nil {
		journalErr(a.journal.LogConsent("/ok", true))
	}
	a.s.ConsentGranted = true
	a.s.Mode = ModeMenu
	a.s.Pending = PendingNone
	if a.journal != nil {
		journalErr(a.journal.LogMode("PRE_CONSENT", "MENU"))
	}
	a.println(menuText)
}

// recordDecline notes a /no. It does not revoke an earlier consent.
func (a *Arbiter) recordDecline() {
	logging.Info("arbiter", "user declined help (state %s)", a.s.state())
	if a.journal != nil {
		journalErr(a.journal.LogConsent("/no", false))
	}
}

func (a *Arbiter) handleMenu(ctx context.Context, cmd command.Command) {
	raw := cmd.Raw
	lower := strings.ToLower(raw)
	isText := cmd.Kind == command.Text

	switch {
	case cmd.Kind == command.Reset:
		a.resetConversation(ctx)

	case cmd.Kind == command.Music:
		if cmd.Arg == "" {
			a.println(askMusicMenu)
			a.s.Pending = AwaitingMusicQuery
			return
		}
		a.playMusic(ctx, cmd.Arg, ModeMenu)
		a.s.Pending = PendingNone
		a.println(menuText)

	case cmd.Kind == command.Game || (isText && strings.Contains(raw, "玩紓壓")):
		a.openPuzzle(ctx, ModeMenu)
		a.s.Pending = PendingNone
		a.println(menuText)

	case cmd.Kind == command.Mind || (isText && (strings.Contains(raw, "正念") || strings.Contains(raw, "冥想"))):
		index, keyword := cmd.MindArg()
		a.playMind(ctx, index, keyword, ModeMenu)
		a.s.Pending = PendingNone
		a.println(menuText)

	case cmd.Kind == command.Chat || (isText && (strings.Contains(lower, "chat") || strings.Contains(raw, "聊天"))):
		a.enterChat(ctx)

	case cmd.Kind == command.Menu || cmd.Kind == command.End:
		a.s.Pending = PendingNone
		a.println(menuText)

	case a.s.Pending == AwaitingMusicQuery && isText:
		a.playMusic(ctx, raw, ModeMenu)
		a.s.Pending = PendingNone
		a.println(menuText)

	default:
		if !isText {
			a.s.Pending = PendingNone
		}
		a.converse(ctx, raw)
		a.println(menuText)
	}
}

func (a *Arbiter) handleChat(ctx context.Context, cmd command.Command) {
	raw := cmd.Raw

	switch cmd.Kind {
	case command.End, command.Menu:
		a.s.Pending = PendingNone
		a.setMode(ModeMenu)
		a.println(menuText)
		return

	case command.Reset:
		a.s.Pending = PendingNone
		a.resetChat(ctx)
		return

	case command.Chat:
		a.println(chatHint)
		return

	case command.Music:
		a.s.Pending = PendingNone
		if cmd.Arg == "" {
			a.println(askMusicChat)
			a.s.Pending = AwaitingMusicQuery
			return
		}
		a.playMusic(ctx, cmd.Arg, ModeChat)
		return

	case command.Game:
		a.s.Pending = PendingNone
		a.openPuzzle(ctx, ModeChat)
		return

	case command.Mind:
		a.s.Pending = PendingNone
		index, keyword := cmd.MindArg()
		a.playMind(ctx, index, keyword, ModeChat)
		return
	}

	if cmd.Kind != command.Text {
		a.s.Pending = PendingNone
	}
	if a.s.Pending == AwaitingMusicQuery {
		a.s.Pending = PendingNone
		a.playMusic(ctx, raw, ModeChat)
		return
	}

	if in := intent.Classify(raw); in != nil {
		logging.Debug("arbiter", "intent %s query=%q", in.Kind, in.Query)
		switch in.Kind {
		case intent.Music:
			if in.Query == "" {
				a.println(askMusicChat)
				a.s.Pending = AwaitingMusicQuery
				return
			}
			a.playMusic(ctx, in.Query, ModeChat)
		case intent.Game:
			a.openPuzzle(ctx, ModeChat)
		case intent.Mind:
			a.playMind(ctx, command.NoIndex, "", ModeChat)
		}
		return
	}

	a.converse(ctx, raw)
}

func (a *Arbiter) enterChat(ctx context.Context) {
	a.converse(ctx, a.persona(ctx))
	a.setMode(ModeChat)
	a.println(chatHint)
}

// persona is the one-time counselor instruction, with recent negative
// readings appended when there are any
func (a *Arbiter) persona(ctx context.Context) string {
	if a.moods == nil {
		return personaInstruction
	}
	alerts, err := a.moods.RecentAlerts(ctx, 3)
	if err != nil {
		logging.Info("arbiter", "mood history: %v", err)
		return personaInstruction
	}
	if len(alerts) == 0 {
		return personaInstruction
	}
	var labels []string
	for _, r := range alerts {
		if r.Score != nil {
			labels = append(labels, fmt.Sprintf("%s（%.2f）", r.Label, *r.Score))
		} else {
			labels = append(labels, r.Label)
		}
	}
	return personaInstruction +
		"\n參考資訊：最近偵測到的情緒為 " + strings.Join(labels, "、") +
		"。請自然地關心，不要直接引用這些數據。"
}

func (a *Arbiter) resetConversation(ctx context.Context) {
	if err := a.openConversation(ctx); err != nil {
		logging.Info("arbiter", "reset conversation: %v", err)
		a.printf(openErr, err)
		return
	}
	a.println(menuText)
	a.println(resetDone)
}

// resetChat replaces the conversation without leaving CHAT. The new one
// gets the persona again since it starts empty.
func (a *Arbiter) resetChat(ctx context.Context) {
	if err := a.openConversation(ctx); err != nil {
		logging.Info("arbiter", "reset conversation: %v", err)
		a.printf(openErr, err)
		return
	}
	a.converse(ctx, a.persona(ctx))
	a.println(resetDone)
}

// converse sends text to the dialogue, reopening it if an earlier open failed
func (a *Arbiter) converse(ctx context.Context, text string) {
	if a.s.conversation == nil {
		if err := a.openConversation(ctx); err != nil {
			a.printf(agentErr, err)
			return
		}
	}
	if err := a.s.conversation.Send(ctx, text, a.out); err != nil {
		logging.Info("arbiter", "conversation: %v", err)
		a.printf(agentErr, err)
	}
}

func (a *Arbiter) playMusic(ctx context.Context, query string, mode Mode) {
	out, err := a.actions.PlayMusic(ctx, query)
	a.report(out, err, musicText, mode)
}

func (a *Arbiter) openPuzzle(ctx context.Context, mode Mode) {
	out, err := a.actions.OpenPuzzle(ctx)
	a.report(out, err, puzzleText, mode)
}

func (a *Arbiter) playMind(ctx context.Context, index int, keyword string, mode Mode) {
	out, err := a.actions.PlayMindAudio(ctx, index, keyword)
	a.report(out, err, mindText, mode)
}

// report prints the assistant's prose and a one-line verdict for an action
func (a *Arbiter) report(out actions.Outcome, err error, text actionText, mode Mode) {
	if out.Text != "" {
		a.println(out.Text)
	}
	switch {
	case err != nil:
		logging.Info("arbiter", "%s: %v", out.Action, err)
		a.printf(text.errFmt, err)
	case out.OK:
		a.println(text.ok)
	case mode == ModeChat:
		logging.Debug("arbiter", "%s failed: %s", out.Action, out.Reason)
		a.println(text.failChat)
	default:
		logging.Debug("arbiter", "%s failed: %s", out.Action, out.Reason)
		a.println(text.failMenu)
	}
}
