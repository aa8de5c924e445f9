// Package journal keeps an append-only JSONL record of what the assistant did.
package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// EntryType says what an entry records
type EntryType string

const (
	EntryConsent EntryType = "consent" // User answered the consent prompt
	EntryAction  EntryType = "action"  // A tool action ran
	EntryAlert   EntryType = "alert"   // Emotion monitor raised an alert
	EntryMode    EntryType = "mode"    // Arbiter switched mode or reset the conversation
)

// Entry is one line of the journal
type Entry struct {
	Timestamp time.Time      `json:"ts"`
	Type      EntryType      `json:"type"`
	Summary   string         `json:"summary,omitempty"`
	Context   string         `json:"context,omitempty"` // What prompted this
	Outcome   string         `json:"outcome,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// Journal appends entries to state/journal.jsonl
type Journal struct {
	path string
	mu   sync.Mutex
}

// New creates a journal writer. The state directory is created on first write.
func New(statePath string) *Journal {
	return &Journal{
		path: filepath.Join(statePath, "journal.jsonl"),
	}
}

// Path returns the journal file location
func (j *Journal) Path() string {
	return j.path
}

// Log appends entry, stamping it with the current time if unset
func (j *Journal) Log(entry Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	if err := os.MkdirAll(filepath.Dir(j.path), 0755); err != nil {
		return err
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LogConsent records a /ok or /no answer
func (j *Journal) LogConsent(answer string, granted bool) error {
	return j.Log(Entry{
		Type:    EntryConsent,
		Summary: answer,
		Data:    map[string]any{"granted": granted},
	})
}

// LogAction records one tool action and how it ended
func (j *Journal) LogAction(action, context string, ok bool, data map[string]any) error {
	outcome := "fail"
	if ok {
		outcome = "ok"
	}
	return j.Log(Entry{
		Type:    EntryAction,
		Summary: action,
		Context: context,
		Outcome: outcome,
		Data:    data,
	})
}

// LogAlert records an alert shown to the user
func (j *Journal) LogAlert(text string) error {
	return j.Log(Entry{
		Type:    EntryAlert,
		Summary: text,
	})
}

// LogMode records a mode transition such as MENU -> CHAT
func (j *Journal) LogMode(from, to string) error {
	return j.Log(Entry{
		Type:    EntryMode,
		Summary: from + " -> " + to,
	})
}

// Recent returns up to n of the newest entries, oldest first
func (j *Journal) Recent(n int) ([]Entry, error) {
	entries, err := j.readAll()
	if err != nil || n >= len(entries) {
		return entries, err
	}
	return entries[len(entries)-n:], nil
}

// Since returns the entries written at or after t
func (j *Journal) Since(t time.Time) ([]Entry, error) {
	entries, err := j.readAll()
	if err != nil {
		return nil, err
	}
	k := sort.Search(len(entries), func(i int) bool {
		return !entries[i].Timestamp.Before(t)
	})
	return entries[k:], nil
}

// readAll decodes the whole file, skipping lines that do not parse. A missing
// file is an empty journal.
func (j *Journal) readAll() ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		var e Entry
		if json.Unmarshal(sc.Bytes(), &e) == nil {
			out = append(out, e)
		}
	}
	return out, sc.Err()
}
