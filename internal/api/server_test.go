package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/lilt/internal/core"
	lilterrors "github.com/tessro/lilt/internal/errors"
	"github.com/tessro/lilt/internal/favorites"
	"github.com/tessro/lilt/internal/session"
)

var secret = []byte("test-secret")

var flowers = core.Song{Title: "Flowers", Artist: "Miley Cyrus", AudioURL: "https://a/1.mp3"}

type fakeSongs struct {
	songs  []core.Song
	err    error
	forced bool
	asked  core.Song
}

func (f *fakeSongs) FetchSongs(_ context.Context, force bool) ([]core.Song, error) {
	f.forced = force
	return f.songs, f.err
}

func (f *fakeSongs) FetchSongSummary(_ context.Context, song core.Song) string {
	f.asked = song
	return `"A breakup anthem."`
}

type fakeCharts struct{}

func (fakeCharts) Load(_ context.Context, kind core.ChartKind) (core.Chart, error) {
	if kind == core.ChartArtist100 {
		return core.Chart{Kind: kind, Items: []core.ChartItem{}}, errors.New("feed down")
	}
	return core.Chart{Kind: kind, Date: "2024-06-01", Items: []core.ChartItem{{Name: "Flowers", Rank: 1}}}, nil
}

func (f fakeCharts) FetchAll(ctx context.Context) (*lilterrors.PartialResult[[]core.Chart], error) {
	result := &lilterrors.PartialResult[[]core.Chart]{}
	for _, kind := range core.ChartKinds {
		chart, err := f.Load(ctx, kind)
		result.Data = append(result.Data, chart)
		result.AddError(err)
	}
	return result, nil
}

func newTestServer(t *testing.T) (*Server, *fakeSongs) {
	t.Helper()
	store, err := favorites.OpenDSN(context.Background(), "sqlite3", filepath.Join(t.TempDir(), "fav.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	songs := &fakeSongs{songs: []core.Song{flowers}}
	return NewServer(songs, fakeCharts{}, store, secret, WithAccessLog(io.Discard)), songs
}

func do(t *testing.T, s *Server, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestListSongs(t *testing.T) {
	s, songs := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/songs?force=true", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, songs.forced)

	var got []core.Song
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []core.Song{flowers}, got)
}

func TestListSongsError(t *testing.T) {
	s, songs := newTestServer(t)
	songs.err = errors.New("upstream down")

	rec := do(t, s, http.MethodGet, "/songs", "", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "upstream down")
}

func TestSongSummary(t *testing.T) {
	s, songs := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/songs/summary?title=Flowers&artist=Miley+Cyrus", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Miley Cyrus", songs.asked.Artist)

	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "A breakup anthem.", got["summary"])

	rec = do(t, s, http.MethodGet, "/songs/summary?title=Flowers", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCharts(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/charts", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Charts []core.Chart `json:"charts"`
		Errors []string     `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Charts, len(core.ChartKinds))
	assert.Equal(t, []string{"feed down"}, got.Errors)
}

func TestGetChart(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/charts/hot100", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var chart core.Chart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chart))
	assert.Equal(t, core.ChartHot100, chart.Kind)

	rec = do(t, s, http.MethodGet, "/charts/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodGet, "/charts/"+string(core.ChartArtist100), "", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestFavoritesRequireToken(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/favorites", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing bearer token")

	other, err := session.Issue([]byte("other-secret"), "me@example.com", time.Hour)
	require.NoError(t, err)
	rec = do(t, s, http.MethodGet, "/favorites", "", other.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFavoritesRoundTrip(t *testing.T) {
	s, _ := newTestServer(t)
	sess, err := session.Issue(secret, "me@example.com", time.Hour)
	require.NoError(t, err)

	rec := do(t, s, http.MethodGet, "/favorites", "", sess.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	body, err := json.Marshal(flowers)
	require.NoError(t, err)
	rec = do(t, s, http.MethodPut, "/favorites", string(body), sess.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/favorites", "", sess.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	var saved []favorites.Saved
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	require.Len(t, saved, 1)
	assert.Equal(t, "Flowers", saved[0].Title)

	stranger, err := session.Issue(secret, "someone@example.com", time.Hour)
	require.NoError(t, err)
	rec = do(t, s, http.MethodGet, "/favorites", "", stranger.Token)
	assert.JSONEq(t, "[]", rec.Body.String(), "favorites are per user")

	rec = do(t, s, http.MethodDelete, "/favorites/Flowers", "", sess.Token)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, "/favorites", "", sess.Token)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestSaveFavoriteRejectsIncompleteSong(t *testing.T) {
	s, _ := newTestServer(t)
	sess, err := session.Issue(secret, "me@example.com", time.Hour)
	require.NoError(t, err)

	rec := do(t, s, http.MethodPut, "/favorites", `{"title":"Flowers"}`, sess.Token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFavoritesDisabledWithoutStore(t *testing.T) {
	s := NewServer(&fakeSongs{}, fakeCharts{}, nil, secret, WithAccessLog(io.Discard))

	rec := do(t, s, http.MethodGet, "/favorites", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
