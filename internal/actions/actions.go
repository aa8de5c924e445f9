// Package actions implements the single-tool actions offered to the user:
// playing music, opening the puzzle game and playing mindfulness audio.
// Every action runs through a stateless invoker and is judged only by the
// trailing JSON the tool produced.
package actions

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/vthunder/companion/internal/executive"
	"github.com/vthunder/companion/internal/logging"
	"github.com/vthunder/companion/internal/tailjson"
)

// Action names used in outcomes and the journal
const (
	ActionMusic  = "play_music"
	ActionPuzzle = "open_puzzle"
	ActionMind   = "play_mind_audio"
)

// Failure reasons set on Outcome.Reason
const (
	ReasonNoJSON     = "no_json"
	ReasonEmptyList  = "empty_list"
	ReasonMismatch   = "opened_mismatch"
	ReasonBadStatus  = "status"
	ReasonNoTempPath = "no_temp_path"
)

// Invoker runs one instruction in a fresh context. *executive.Invoker
// implements it.
type Invoker interface {
	Invoke(ctx context.Context, instruction string) (executive.Result, error)
}

// Recorder receives one entry per finished action. *journal.Journal
// implements it.
type Recorder interface {
	LogAction(action, context string, ok bool, data map[string]any) error
}

// Outcome describes how an action ended
type Outcome struct {
	Action string
	OK     bool
	Reason string         // why OK is false, empty on success
	Text   string         // assistant prose without the trailing JSON line
	JSON   map[string]any // the tool result mirrored by the assistant
	Target string         // file that was asked for, mind audio by keyword only
}

// Handlers runs actions. Calls for one action are strictly sequential.
type Handlers struct {
	inv     Invoker
	journal Recorder
}

// New creates action handlers. journal may be nil.
func New(inv Invoker, journal Recorder) *Handlers {
	return &Handlers{inv: inv, journal: journal}
}

// PlayMusic asks play_song for query. Success iff status is ok/success or
// playing is true.
func (h *Handlers) PlayMusic(ctx context.Context, query string) (Outcome, error) {
	out, err := h.run(ctx, ActionMusic, musicInstruction(query))
	if err != nil {
		return h.finish(out, query, err)
	}
	judge(&out, statusOK(out.JSON) || out.JSON["playing"] == true, ReasonBadStatus)
	return h.finish(out, query, nil)
}

// OpenPuzzle asks open_in_browser for the puzzle page. Success iff the
// result carries a non-empty temp_path.
func (h *Handlers) OpenPuzzle(ctx context.Context) (Outcome, error) {
	out, err := h.run(ctx, ActionPuzzle, puzzleInstruction())
	if err != nil {
		return h.finish(out, "", err)
	}
	p, _ := out.JSON["temp_path"].(string)
	judge(&out, strings.TrimSpace(p) != "", ReasonNoTempPath)
	return h.finish(out, "", nil)
}

// PlayMindAudio opens a local mp3. An index of zero or more goes straight to
// open_index, which reports out-of-range itself; a negative index chooses the
// file by keyword from a fresh listing.
func (h *Handlers) PlayMindAudio(ctx context.Context, index int, keyword string) (Outcome, error) {
	if index >= 0 {
		return h.mindByIndex(ctx, index)
	}
	return h.mindByKeyword(ctx, keyword)
}

func (h *Handlers) mindByIndex(ctx context.Context, index int) (Outcome, error) {
	label := fmt.Sprintf("#%d", index)
	out, err := h.run(ctx, ActionMind, openIndexInstruction(index))
	if err != nil {
		return h.finish(out, label, err)
	}
	judge(&out, statusOK(out.JSON) || present(out.JSON["opened"]) || present(out.JSON["path"]), ReasonBadStatus)
	return h.finish(out, label, nil)
}

func (h *Handlers) mindByKeyword(ctx context.Context, keyword string) (Outcome, error) {
	out := Outcome{Action: ActionMind}

	files, err := h.ListMedia(ctx)
	if err != nil {
		return h.finish(out, keyword, err)
	}
	if len(files) == 0 {
		out.Reason = ReasonEmptyList
		return h.finish(out, keyword, nil)
	}

	target := ChooseByKeyword(files, keyword)
	out, err = h.run(ctx, ActionMind, openMediaInstruction(files, target))
	out.Target = target
	if err != nil {
		return h.finish(out, keyword, err)
	}

	// A success status alone is not enough: the opened file must be the target
	opened := firstString(out.JSON, "opened", "path")
	if !statusOK(out.JSON) {
		judge(&out, false, ReasonBadStatus)
	} else if !SameName(opened, target) {
		logging.Info("actions", "asked for %q but tool opened %q", target, opened)
		judge(&out, false, ReasonMismatch)
	} else {
		judge(&out, true, "")
	}
	return h.finish(out, keyword, nil)
}

// ListMedia asks list_media for the default folder and returns the mp3
// names exactly as listed. A failed or malformed listing yields no names.
func (h *Handlers) ListMedia(ctx context.Context) ([]string, error) {
	res, err := h.inv.Invoke(ctx, listMediaInstruction())
	if err != nil {
		return nil, err
	}
	if !statusOK(res.JSON) {
		return nil, nil
	}
	raw, _ := res.JSON["mp3"].([]any)
	var files []string
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			files = append(files, s)
		}
	}
	return files, nil
}

// run invokes instruction and fills the common outcome fields
func (h *Handlers) run(ctx context.Context, action, instruction string) (Outcome, error) {
	out := Outcome{Action: action}
	res, err := h.inv.Invoke(ctx, instruction)
	out.Text = tailjson.StripTail(res.RawText)
	if err != nil {
		return out, err
	}
	out.JSON = res.JSON
	if !res.OK {
		out.Reason = ReasonNoJSON
	}
	return out, nil
}

// judge applies a success predicate unless there was no JSON to judge
func judge(out *Outcome, ok bool, reason string) {
	if out.Reason != "" {
		return
	}
	if ok {
		out.OK = true
	} else {
		out.Reason = reason
	}
}

func (h *Handlers) finish(out Outcome, subject string, err error) (Outcome, error) {
	if h.journal != nil {
		data := map[string]any{}
		for k, v := range out.JSON {
			data[k] = v
		}
		if out.Target != "" {
			data["target"] = out.Target
		}
		if out.Reason != "" {
			data["reason"] = out.Reason
		}
		if err != nil {
			data["error"] = err.Error()
		}
		if jerr := h.journal.LogAction(out.Action, subject, out.OK, data); jerr != nil {
			logging.Info("actions", "journal: %v", jerr)
		}
	}
	return out, err
}

// ChooseByKeyword picks a name from candidates: first a case-insensitive
// substring match on the full name, then on the name without its extension,
// then the first candidate. It never returns a name outside candidates and
// returns "" only when candidates is empty.
func ChooseByKeyword(candidates []string, keyword string) string {
	if len(candidates) == 0 {
		return ""
	}
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return candidates[0]
	}
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c), kw) {
			return c
		}
	}
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(stem(c)), kw) {
			return c
		}
	}
	return candidates[0]
}

// SameName compares two file references by base name, ignoring case,
// surrounding quotes and the directory part
func SameName(a, b string) bool {
	return strings.EqualFold(baseName(a), baseName(b))
}

func baseName(s string) string {
	s = strings.Trim(strings.TrimSpace(s), `"'`)
	if s == "" {
		return ""
	}
	return path.Base(strings.ReplaceAll(s, `\`, "/"))
}

func stem(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[:i]
	}
	return name
}

func statusOK(obj map[string]any) bool {
	s, _ := obj["status"].(string)
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ok", "success":
		return true
	}
	return false
}

func present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	case bool:
		return x
	}
	return true
}

func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
