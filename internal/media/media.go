// Package media lists and opens the local mp3/mp4 files served by media-mcp.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vthunder/companion/internal/opener"
)

// DefaultDir is used when MEDIA_DIR is not set
const DefaultDir = "media"

// Listing is the list_media result
type Listing struct {
	Status    string   `json:"status"`
	Directory string   `json:"directory,omitempty"`
	MP3       []string `json:"mp3"`
	MP4       []string `json:"mp4"`
	Reason    string   `json:"reason,omitempty"`
}

// Result is the open_media / open_index result
type Result struct {
	Status string `json:"status"`
	Opened string `json:"opened,omitempty"`
	Path   string `json:"path,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func fail(format string, args ...any) Result {
	return Result{Status: "fail", Reason: fmt.Sprintf(format, args...)}
}

// Library is one media folder
type Library struct {
	dir    string
	opener opener.Opener
}

// NewLibrary serves dir, opening files with o
func NewLibrary(dir string, o opener.Opener) *Library {
	if dir == "" {
		dir = DefaultDir
	}
	return &Library{dir: strings.Trim(dir, `"'`), opener: o}
}

// Dir returns the absolute folder path when it can be resolved
func (l *Library) Dir() string {
	if abs, err := filepath.Abs(l.dir); err == nil {
		return abs
	}
	return l.dir
}

// List returns the mp3 and mp4 names in the folder, each sorted by name
func (l *Library) List() Listing {
	mp3, mp4, err := l.scan()
	if err != nil {
		return Listing{Status: "fail", Reason: err.Error(), MP3: []string{}, MP4: []string{}}
	}
	return Listing{Status: "ok", Directory: l.Dir(), MP3: mp3, MP4: mp4}
}

// Open opens the file called name. name must be exactly as listed.
func (l *Library) Open(name string) Result {
	name = strings.TrimSpace(name)
	if name == "" {
		return fail("name is required")
	}
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return fail("name must be a file name from list_media, got %q", name)
	}
	if ext := strings.ToLower(filepath.Ext(name)); ext != ".mp3" && ext != ".mp4" {
		return fail("only .mp3 or .mp4 files are allowed")
	}
	path := filepath.Join(l.Dir(), name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fail("file not found in directory: %s", path)
	}
	return l.open(name, path)
}

// OpenIndex opens the index-th (1-based) file of kind "mp3" or "mp4"
func (l *Library) OpenIndex(kind string, index int) Result {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind != "mp3" && kind != "mp4" {
		return fail("kind must be 'mp3' or 'mp4'")
	}
	mp3, mp4, err := l.scan()
	if err != nil {
		return fail("%v", err)
	}
	files := mp3
	if kind == "mp4" {
		files = mp4
	}
	if len(files) == 0 {
		return fail("no .%s files found in %s", kind, l.Dir())
	}
	if index < 1 || index > len(files) {
		return fail("index out of range (1..%d)", len(files))
	}
	name := files[index-1]
	return l.open(name, filepath.Join(l.Dir(), name))
}

func (l *Library) open(name, path string) Result {
	if err := l.opener.Open(path); err != nil {
		return fail("%v", err)
	}
	return Result{Status: "ok", Opened: name, Path: path}
}

func (l *Library) scan() (mp3, mp4 []string, err error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, nil, fmt.Errorf("directory not found: %s", l.Dir())
	}
	mp3, mp4 = []string{}, []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".mp3":
			mp3 = append(mp3, e.Name())
		case ".mp4":
			mp4 = append(mp4, e.Name())
		}
	}
	sort.Strings(mp3)
	sort.Strings(mp4)
	return mp3, mp4, nil
}
