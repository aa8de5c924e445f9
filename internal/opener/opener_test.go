package opener

import "testing"

func TestCommand(t *testing.T) {
	tests := []struct {
		goos string
		name string
		last string
	}{
		{"linux", "xdg-open", "/tmp/a.mp3"},
		{"freebsd", "xdg-open", "/tmp/a.mp3"},
		{"darwin", "open", "/tmp/a.mp3"},
		{"windows", "rundll32", "/tmp/a.mp3"},
	}
	for _, tt := range tests {
		name, args := Command(tt.goos, "/tmp/a.mp3")
		if name != tt.name || args[len(args)-1] != tt.last {
			t.Errorf("%s: got %s %v", tt.goos, name, args)
		}
	}
}

func TestFunc(t *testing.T) {
	var got string
	var o Opener = Func(func(target string) error {
		got = target
		return nil
	})
	o.Open("file:///tmp/p.html")
	if got != "file:///tmp/p.html" {
		t.Errorf("got %q", got)
	}
}
