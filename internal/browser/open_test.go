package browser

import (
	"runtime"
	"testing"
)

func TestOpenSupported(t *testing.T) {
	switch runtime.GOOS {
	case "darwin", "linux", "windows":
	default:
		t.Skipf("Unsupported platform: %s", runtime.GOOS)
	}

	name, args, err := command(runtime.GOOS, "https://example.com")
	if err != nil {
		t.Fatalf("command() error = %v", err)
	}
	if name == "" || args[len(args)-1] != "https://example.com" {
		t.Errorf("command() = %q %v", name, args)
	}
}

func TestCommandUnsupported(t *testing.T) {
	if _, _, err := command("plan9", "https://example.com"); err == nil {
		t.Error("expected error for unsupported platform")
	}
}

func TestOpenRejectsNonHTTP(t *testing.T) {
	for _, u := range []string{"file:///etc/passwd", "javascript:alert(1)", "::"} {
		if err := Open(u); err == nil {
			t.Errorf("Open(%q) should fail", u)
		}
	}
}

func TestYouTubeSearchURL(t *testing.T) {
	got := YouTubeSearchURL("Flowers", " Miley  Cyrus ")
	want := "https://www.youtube.com/results?search_query=Flowers+Miley+Cyrus"
	if got != want {
		t.Errorf("YouTubeSearchURL() = %q, want %q", got, want)
	}
}
