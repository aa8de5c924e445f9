// Package logging prefixes diagnostics with their subsystem. Everything goes
// through the standard logger, which the assistant points at stderr.
package logging

import (
	"log"
	"os"
	"strings"
	"unicode/utf8"
)

var debugEnabled = os.Getenv("DEBUG") == "true"

func printf(subsystem, format string, args []any) {
	log.Printf("[%s] "+format, append([]any{subsystem}, args...)...)
}

// Info logs an informational message (always shown)
func Info(subsystem, format string, args ...any) {
	printf(subsystem, format, args)
}

// Debug logs only when DEBUG=true
func Debug(subsystem, format string, args ...any) {
	Trace(false, subsystem, format, args...)
}

// Trace logs when a per-feature toggle is on (LOG_TOOL_DEBUG, LOG_EMOTION_DEBUG).
// DEBUG=true turns every trace on.
func Trace(on bool, subsystem, format string, args ...any) {
	if on || debugEnabled {
		printf(subsystem, format, args)
	}
}

// Truncate flattens s to one line and cuts it to maxLen runes
func Truncate(s string, maxLen int) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}
