package tail

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl != "" {
			t, err := template.New("format").Parse(tmpl)
			if err == nil {
				f.template = t
			}
		}
	}
}

// ParseTemplate validates a format template before use.
func ParseTemplate(tmpl string) error {
	_, err := template.New("format").Parse(tmpl)
	return err
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji:     true,
		showTimestamp: false,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

// formatLine formats an event as a simple line.
func (f *Formatter) formatLine(e Event) string {
	var parts []string

	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}

	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Type))
	}

	parts = append(parts, describe(e))

	return strings.Join(parts, " ")
}

// formatTemplate formats an event using a custom template.
func (f *Formatter) formatTemplate(e Event) string {
	data := templateData{
		Type:      eventTypeName(e.Type),
		Emoji:     eventEmoji(e.Type),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
		Count:     e.Count,
	}

	if e.Song != nil {
		data.Title = e.Song.Title
		data.Artist = e.Song.Artist
		data.PlayTime = e.Song.PlayTime
		data.AudioURL = e.Song.AudioURL
	}
	if e.Err != nil {
		data.Error = e.Err.Error()
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

type templateData struct {
	Type      string
	Emoji     string
	Timestamp time.Time
	Time      string
	Title     string
	Artist    string
	PlayTime  string
	AudioURL  string
	Count     int
	Error     string
}

// describe returns a human-readable description of the event.
func describe(e Event) string {
	switch e.Type {
	case EventPlaylistLoaded:
		return fmt.Sprintf("Playlist loaded: %d songs", e.Count)

	case EventNowPlaying:
		if e.Song != nil {
			return "Now playing: " + songLine(e)
		}
		return "Playlist is empty"

	case EventNewSong:
		if e.Song != nil {
			return "New: " + songLine(e)
		}
		return "New song"

	case EventFetchError:
		if e.Err != nil {
			return "Fetch failed: " + e.Err.Error()
		}
		return "Fetch failed"

	default:
		return "Unknown event"
	}
}

func songLine(e Event) string {
	line := fmt.Sprintf("%s - %s", e.Song.Artist, e.Song.Title)
	if e.Song.PlayTime != "" {
		line += " (" + e.Song.PlayTime + ")"
	}
	return line
}

// eventEmoji returns an emoji for the event type.
func eventEmoji(t EventType) string {
	switch t {
	case EventPlaylistLoaded:
		return "📻"
	case EventNowPlaying:
		return "🎵"
	case EventNewSong:
		return "✨"
	case EventFetchError:
		return "⚠️"
	default:
		return "❓"
	}
}

// eventTypeName returns the name of the event type.
func eventTypeName(t EventType) string {
	switch t {
	case EventPlaylistLoaded:
		return "playlist_loaded"
	case EventNowPlaying:
		return "now_playing"
	case EventNewSong:
		return "new_song"
	case EventFetchError:
		return "fetch_error"
	default:
		return "unknown"
	}
}
