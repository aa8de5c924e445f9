// Package puzzle serves the bundled relaxation puzzle page for puzzle-mcp.
package puzzle

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/vthunder/companion/internal/opener"
)

//go:embed puzzle.html
var page []byte

// DefaultFilename is used by Export when no filename is given
const DefaultFilename = "puzzle.html"

// ResourceURI identifies the page as an MCP resource
const ResourceURI = "puzzle://index"

// HTML returns the page source
func HTML() string {
	return string(page)
}

// Export writes the page to destDir/filename and returns the absolute path.
// destDir is created if missing; a leading ~ expands to the home directory.
func Export(destDir, filename string) (string, error) {
	if filename == "" {
		filename = DefaultFilename
	}
	if filename != filepath.Base(filename) {
		return "", fmt.Errorf("filename must not contain a directory: %q", filename)
	}
	dir, err := expandHome(destDir)
	if err != nil {
		return "", err
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	out := filepath.Join(dir, filename)
	if err := os.WriteFile(out, page, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", out, err)
	}
	return out, nil
}

// OpenInBrowser copies the page to tmpDir/puzzle_mcp/puzzle.html and asks o
// to open it. A launcher failure is returned alongside the path, which is
// still valid.
func OpenInBrowser(tmpDir string, o opener.Opener) (string, error) {
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	out, err := Export(filepath.Join(tmpDir, "puzzle_mcp"), DefaultFilename)
	if err != nil {
		return "", err
	}
	return out, o.Open(fileURL(out))
}

func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

func expandHome(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dest_dir is required")
	}
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(dir, "~")), nil
}
