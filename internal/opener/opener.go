// Package opener hands files and URLs to the desktop's default application.
package opener

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Opener opens a path or URL with the default application
type Opener interface {
	Open(target string) error
}

// System uses the platform launcher (xdg-open, open or rundll32). It does not
// wait for the launched application.
type System struct{}

// Open starts the platform launcher for target
func (System) Open(target string) error {
	name, args := Command(runtime.GOOS, target)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	// Reap the launcher in the background
	go cmd.Wait()
	return nil
}

// Command returns the launcher invocation for goos
func Command(goos, target string) (string, []string) {
	switch goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	case "darwin":
		return "open", []string{target}
	default:
		return "xdg-open", []string{target}
	}
}

// Func adapts a function to Opener
type Func func(target string) error

// Open calls f
func (f Func) Open(target string) error {
	return f(target)
}
