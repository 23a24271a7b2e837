package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/lilt/internal/config"
	"github.com/tessro/lilt/internal/core"
	"github.com/tessro/lilt/internal/favorites"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func withConfig(t *testing.T, c *config.Config) {
	t.Helper()
	prev := cfg
	cfg = c
	t.Cleanup(func() { cfg = prev })
}

func withJSON(t *testing.T, on bool) {
	t.Helper()
	prev := jsonOut
	jsonOut = on
	t.Cleanup(func() { jsonOut = prev })
}

const playlistJSON = `[
  {"title":"Flowers","artist":"Miley Cyrus","imageUrl":"https://img/1.jpg","audioUrl":"https://a/1.mp3","playFrom":"2024-06-01T14:03:00+02:00"},
  {"title":"Houdini","artist":"Dua Lipa","imageUrl":null,"audioUrl":"https://a/2.mp3","playFrom":"2024-06-01T14:00:00+02:00"},
  {"title":"","artist":"Nobody","audioUrl":"https://a/3.mp3"}
]`

func playlistServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(playlistJSON))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunSongsTable(t *testing.T) {
	srv := playlistServer(t)
	c := config.Default()
	c.Feeds.PlaylistURL = srv.URL
	withConfig(t, c)
	withJSON(t, false)
	out := captureOutput(t)

	songsCmd.SetContext(context.Background())
	require.NoError(t, runSongs(songsCmd, nil))

	text := out.String()
	assert.Contains(t, text, "TITLE")
	assert.Contains(t, text, "Flowers")
	assert.Contains(t, text, "Houdini")
	assert.NotContains(t, text, "Nobody", "incomplete entries are dropped")
}

func TestRunSongsJSONFind(t *testing.T) {
	srv := playlistServer(t)
	c := config.Default()
	c.Feeds.PlaylistURL = srv.URL
	withConfig(t, c)
	withJSON(t, true)
	out := captureOutput(t)

	songsFind = "houdni"
	t.Cleanup(func() { songsFind = "" })

	songsCmd.SetContext(context.Background())
	require.NoError(t, runSongs(songsCmd, nil))

	var got []core.Song
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Houdini", got[0].Title)
	assert.Equal(t, c.Feeds.PlaceholderImage, got[0].ImageURL)
}

func TestSetConfigValue(t *testing.T) {
	data := []byte("[tui]\n  theme = \"auto\"\n")

	raw, err := setConfigValue(data, "tui.theme", "mocha")
	require.NoError(t, err)
	assert.Equal(t, "mocha", raw["tui"].(map[string]interface{})["theme"])

	raw, err = setConfigValue(data, "cache.ttl", "60")
	require.NoError(t, err)
	assert.Equal(t, 60, raw["cache"].(map[string]interface{})["ttl"])

	_, err = setConfigValue(data, "cache.ttl", "soon")
	assert.Error(t, err)

	_, err = setConfigValue(data, "tui.theme", "neon")
	assert.Error(t, err, "invalid values are rejected")

	_, err = setConfigValue(data, "tui.colour", "mocha")
	assert.ErrorContains(t, err, "unknown config key")

	_, err = setConfigValue(data, "theme", "mocha")
	assert.Error(t, err)
}

func TestSavedTitle(t *testing.T) {
	saved := []favorites.Saved{
		{Song: core.Song{Title: "Flowers", Artist: "Miley Cyrus"}},
		{Song: core.Song{Title: "Houdini", Artist: "Dua Lipa"}},
	}

	assert.Equal(t, "Houdini", savedTitle(saved, "Houdini"))
	assert.Equal(t, "Flowers", savedTitle(saved, "flowers"))
	assert.Equal(t, "Houdini", savedTitle(saved, "dua lipa"))
	assert.Empty(t, savedTitle(saved, "something else entirely"))
}

func TestChartMovement(t *testing.T) {
	n := func(v int) *int { return &v }

	assert.Equal(t, "new", chartMovement(core.ChartItem{Rank: 3}))
	assert.Equal(t, "+2", chartMovement(core.ChartItem{Rank: 3, LastWeekRank: n(5)}))
	assert.Equal(t, "-4", chartMovement(core.ChartItem{Rank: 9, LastWeekRank: n(5)}))
	assert.Equal(t, "=", chartMovement(core.ChartItem{Rank: 5, LastWeekRank: n(5)}))

	assert.Equal(t, "-", optionalInt(nil))
	assert.Equal(t, "7", optionalInt(n(7)))
	assert.Equal(t, "3rd week", weeksLabel(n(3)))
	assert.Equal(t, "-", weeksLabel(nil))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "abcdefg...", TruncateString("abcdefghijklmnop", 10))
	assert.Equal(t, "Beyoncé...", TruncateString("Beyoncé Knowles", 10))
	assert.Equal(t, "ab", TruncateString("abcdef", 2))
}

func TestHumanSince(t *testing.T) {
	assert.Equal(t, "-", humanSince(time.Time{}))
	assert.True(t, strings.HasSuffix(humanSince(time.Now().Add(-3*time.Hour)), "ago"))
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTableWriter(&buf, "A", "LONGER")
	table.Row("1", "x")
	table.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "A  LONGER", lines[0])
	assert.Equal(t, "1  x", strings.TrimSpace(lines[1]))
}
