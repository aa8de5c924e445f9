// Package command turns one input line into a Command. Each line is
// tokenized exactly once; anything that is not a known command is Text.
package command

import (
	"strconv"
	"strings"
	"unicode"
)

// Kind identifies a command
type Kind int

const (
	Text  Kind = iota // free text, not a command
	OK                // /ok
	No                // /no
	Music             // /music [query]
	Game              // /game
	Mind              // /mind [index|keyword]
	Chat              // /chat
	Reset             // /reset
	End               // /end
	Menu              // /menu
)

var names = map[string]Kind{
	"/ok":    OK,
	"/no":    No,
	"/music": Music,
	"/game":  Game,
	"/mind":  Mind,
	"/chat":  Chat,
	"/reset": Reset,
	"/end":   End,
	"/menu":  Menu,
}

// takesArg lists the commands that accept a trailing argument
var takesArg = map[Kind]bool{Music: true, Mind: true}

func (k Kind) String() string {
	for name, kind := range names {
		if kind == k {
			return name
		}
	}
	return "text"
}

// Command is one tokenized input line
type Command struct {
	Kind Kind
	Arg  string // argument after /music or /mind, trimmed
	Raw  string // the whole line, trimmed
}

// Parse tokenizes line. The command word is case-insensitive. Commands that
// take no argument must stand alone, so "/ok thanks" is Text.
func Parse(line string) Command {
	raw := strings.TrimSpace(line)
	cmd := Command{Kind: Text, Raw: raw}
	if !strings.HasPrefix(raw, "/") {
		return cmd
	}

	word, rest := raw, ""
	if i := strings.IndexFunc(raw, unicode.IsSpace); i >= 0 {
		word, rest = raw[:i], raw[i:]
	}
	kind, ok := names[strings.ToLower(word)]
	if !ok {
		return cmd
	}
	rest = strings.TrimSpace(rest)
	if rest != "" && !takesArg[kind] {
		return cmd
	}
	cmd.Kind = kind
	cmd.Arg = rest
	return cmd
}

// NoIndex is the MindArg index when the argument is not a number
const NoIndex = -1

// MindArg interprets the /mind argument: all digits is a 1-based index (0
// included, so the tool can reject it), anything else a keyword. An empty
// argument gives NoIndex and no keyword.
func (c Command) MindArg() (index int, keyword string) {
	if c.Arg == "" {
		return NoIndex, ""
	}
	if isDigits(c.Arg) {
		if n, err := strconv.Atoi(c.Arg); err == nil {
			return n, ""
		}
	}
	return NoIndex, c.Arg
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
