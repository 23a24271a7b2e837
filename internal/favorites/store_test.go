package favorites

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tessro/lilt/internal/core"
	lilterrors "github.com/tessro/lilt/internal/errors"
)

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := OpenDSN(context.Background(), "sqlite3", filepath.Join(t.TempDir(), "fav.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

var flowers = core.Song{Title: "Flowers", Artist: "Miley Cyrus", ImageURL: "https://img/1.jpg", AudioURL: "https://a/1.mp3", PlayTime: "14:03"}

func TestSaveListDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "u1", flowers))

	saved, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, flowers, saved[0].Song)

	titles, err := s.Titles(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, titles.Contains("Flowers"))

	other, err := s.Titles(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other, "favorites are per user")

	require.NoError(t, s.Delete(ctx, "u1", "Flowers"))
	saved, err = s.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, saved)

	require.NoError(t, s.Delete(ctx, "u1", "Flowers"), "deleting twice is fine")
}

func TestSaveUpsertsByTitle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "u1", flowers))
	updated := flowers
	updated.AudioURL = "https://a/other.mp3"
	require.NoError(t, s.Save(ctx, "u1", updated))

	got, err := s.Get(ctx, "u1", "Flowers")
	require.NoError(t, err)
	assert.Equal(t, "https://a/other.mp3", got.AudioURL)

	saved, err := s.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(context.Background(), "u1", "nope")
	assert.ErrorIs(t, err, lilterrors.ErrSongNotFound)
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	now := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return now }
	require.NoError(t, s.Save(ctx, "u1", flowers))

	now = now.Add(time.Minute)
	houdini := core.Song{Title: "Houdini", Artist: "Dua Lipa", AudioURL: "https://a/3.mp3"}
	require.NoError(t, s.Save(ctx, "u1", houdini))

	saved, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "Houdini", saved[0].Title)
	assert.Equal(t, now.Unix(), saved[0].SavedAt.Unix())
}

func TestSaveRequiresTitle(t *testing.T) {
	s := openTestStore(t)
	assert.Error(t, s.Save(context.Background(), "u1", core.Song{Artist: "x"}))
}

func TestExport(t *testing.T) {
	saved := []Saved{{Song: flowers, SavedAt: time.Unix(1_700_000_000, 0).UTC()}}

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Export(&buf, saved, FormatYAML))

		var out []map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
		require.Len(t, out, 1)
		assert.Equal(t, "Flowers", out[0]["title"])
		assert.Equal(t, "https://a/1.mp3", out[0]["audio_url"])
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Export(&buf, saved, FormatJSON))

		var out []map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		require.Len(t, out, 1)
		assert.Equal(t, "Miley Cyrus", out[0]["artist"])
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Export(&buf, nil, FormatJSON))
		assert.Equal(t, "[]\n", buf.String())
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Error(t, Export(&bytes.Buffer{}, saved, "xml"))
	})
}
