// Package profiling records how long model calls take, one JSON line per
// measurement.
package profiling

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Level determines what gets timed
type Level string

const (
	LevelOff   Level = "off"   // nothing
	LevelCalls Level = "calls" // stateless invocations and dialogue turns
	LevelTools Level = "tools" // also every MCP tool call inside them
)

// ParseLevel accepts off, calls or tools
func ParseLevel(s string) (Level, error) {
	switch l := Level(s); l {
	case "", LevelOff:
		return LevelOff, nil
	case LevelCalls, LevelTools:
		return l, nil
	}
	return LevelOff, fmt.Errorf("unknown profiling level %q (want off, calls or tools)", s)
}

// Timing is a single measurement
type Timing struct {
	ID         string         `json:"id"`
	Stage      string         `json:"stage"`
	StartTime  time.Time      `json:"start_time"`
	DurationMs float64        `json:"duration_ms"`
	Error      string         `json:"error,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Profiler appends timings to a file. The zero value and a nil *Profiler are
// disabled.
type Profiler struct {
	level Level
	mu    sync.Mutex
	file  *os.File
	enc   *json.Encoder
}

var (
	globalMu sync.RWMutex
	global   = &Profiler{level: LevelOff}
)

// Open creates a profiler writing to path. LevelOff opens nothing.
func Open(level Level, path string) (*Profiler, error) {
	p := &Profiler{level: level}
	if level == LevelOff {
		return p, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create profiling dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open profiling log: %w", err)
	}
	p.file = f
	p.enc = json.NewEncoder(f)
	return p, nil
}

// Init opens the process-wide profiler returned by Get
func Init(level Level, path string) error {
	p, err := Open(level, path)
	if err != nil {
		return err
	}
	globalMu.Lock()
	global = p
	globalMu.Unlock()
	return nil
}

// Get returns the process-wide profiler (disabled until Init)
func Get() *Profiler {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// Enabled reports whether measurements at level are recorded
func (p *Profiler) Enabled(level Level) bool {
	if p == nil || p.enc == nil {
		return false
	}
	switch p.level {
	case LevelTools:
		return level == LevelCalls || level == LevelTools
	case LevelCalls:
		return level == LevelCalls
	}
	return false
}

// Start begins timing stage and returns the function that records it
func (p *Profiler) Start(level Level, id, stage string) func(err error, metadata map[string]any) {
	if !p.Enabled(level) {
		return func(error, map[string]any) {}
	}
	start := time.Now()
	return func(err error, metadata map[string]any) {
		t := Timing{
			ID:         id,
			Stage:      stage,
			StartTime:  start,
			DurationMs: float64(time.Since(start).Nanoseconds()) / 1e6,
			Metadata:   metadata,
		}
		if err != nil {
			t.Error = err.Error()
		}
		p.Record(t)
	}
}

// Record writes t
func (p *Profiler) Record(t Timing) {
	if p == nil || p.enc == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.enc.Encode(t)
}

// Close closes the log file
func (p *Profiler) Close() error {
	if p == nil || p.file == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.file.Close()
}
