package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/lilt/internal/browser"
	"github.com/tessro/lilt/internal/core"
	lilterrors "github.com/tessro/lilt/internal/errors"
	"github.com/tessro/lilt/internal/favorites"
	"github.com/tessro/lilt/internal/songs"
	"github.com/tessro/lilt/internal/tui/components"
)

// Screen is the top-level view.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenCharts
	ScreenSaved
)

var screenNames = []string{"Home", "Charts", "Saved"}

const (
	pickCount     = 5
	toastDuration = 3 * time.Second
	seekStep      = 10 * time.Second
)

// Toast texts
const (
	toastSignInRequired = "You must be signed in to save songs."
	toastSaved          = "Song saved!"
	toastRemoved        = "Removed from favorites."
)

// Model is the main TUI model
type Model struct {
	app    *App
	width  int
	height int
	screen Screen

	// Playlist
	songs   []core.Song
	picks   []core.Song
	cursor  int
	loading bool
	err     error

	// Playback
	playback    core.PlaybackState
	loadedURL   string
	pendingURL  string
	polling     bool
	progressGen int

	// Favorites
	favorites  core.FavoriteSet
	isFavorite bool

	// Overlays
	showPlayer     bool
	showHelp       bool
	showSummary    bool
	summaryLoading bool
	summaryFor     string
	summary        string

	// Charts screen
	charts        []core.Chart
	chartsLoading bool
	chartsErr     string
	chartIndex    int

	// Saved screen
	saved        []favorites.Saved
	savedLoading bool
	savedCursor  int

	toast   string
	toastID int

	// Components
	nowPlaying *components.NowPlaying
	picksView  *components.SongList
	songList   *components.SongList
	chartsView *components.Charts
	savedView  *components.Saved

	quitting bool
}

// NewModel creates a new TUI model
func NewModel(app *App) Model {
	return Model{
		app:        app,
		screen:     ScreenHome,
		loading:    true,
		favorites:  core.NewFavoriteSet(),
		nowPlaying: components.NewNowPlaying(),
		picksView:  components.NewSongList("Picks for you"),
		songList:   components.NewSongList("On air"),
		chartsView: components.NewCharts(),
		savedView:  components.NewSaved(),
	}
}

// Messages
type songsMsg struct {
	songs []core.Song
	err   error
}
type playingChangedMsg bool
type progressTickMsg struct{ gen int }
type refreshTickMsg time.Time
type trackLoadedMsg struct{ url string }
type playbackErrMsg struct {
	url string
	err error
}
type favoritesLoadedMsg struct {
	set core.FavoriteSet
	err error
}
type favoriteToggledMsg struct {
	song  core.Song
	saved bool
	err   error
}
type summaryMsg struct {
	audioURL string
	text     string
}
type chartsMsg struct {
	result *lilterrors.PartialResult[[]core.Chart]
	err    error
}
type savedMsg struct {
	saved []favorites.Saved
	err   error
}
type toastMsg string
type toastExpiredMsg struct{ id int }

// Commands
func (m Model) refreshTick() tea.Cmd {
	return tea.Tick(m.app.refreshInterval, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

func (m Model) progressTick(gen int) tea.Cmd {
	return tea.Tick(m.app.progressInterval, func(time.Time) tea.Msg {
		return progressTickMsg{gen: gen}
	})
}

func (m Model) fetchSongsCmd(force bool) tea.Cmd {
	app := m.app
	return func() tea.Msg {
		list, err := app.songs.FetchSongs(app.ctx, force)
		return songsMsg{songs: list, err: err}
	}
}

func (m Model) loadFavoritesCmd() tea.Cmd {
	app := m.app
	return func() tea.Msg {
		set, err := app.store.Titles(app.ctx, app.userID)
		return favoritesLoadedMsg{set: set, err: err}
	}
}

func (m Model) loadChartsCmd() tea.Cmd {
	app := m.app
	return func() tea.Msg {
		result, err := app.charts.FetchAll(app.ctx)
		return chartsMsg{result: result, err: err}
	}
}

func (m Model) loadSavedCmd() tea.Cmd {
	app := m.app
	return func() tea.Msg {
		saved, err := app.store.List(app.ctx, app.userID)
		return savedMsg{saved: saved, err: err}
	}
}

func (m Model) playCmd(url string) tea.Cmd {
	app := m.app
	return func() tea.Msg {
		if err := app.player.Play(app.ctx, url); err != nil {
			return playbackErrMsg{url: url, err: err}
		}
		return trackLoadedMsg{url: url}
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.fetchSongsCmd(false),
		m.refreshTick(),
		m.app.waitForPlayback(),
	}
	if m.app.SignedIn() {
		cmds = append(cmds, m.loadFavoritesCmd())
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case songsMsg:
		m.loading = false
		if msg.err != nil {
			slog.Warn("failed to load playlist", "error", msg.err)
			m.err = msg.err
			return m, nil
		}
		m.songs = msg.songs
		m.picks = m.app.pickRandom(msg.songs, pickCount)
		if m.cursor >= len(m.songs) {
			m.cursor = max(len(m.songs)-1, 0)
		}
		return m, nil

	case refreshTickMsg:
		next, cmd := m.FetchSongs(true)
		return next, tea.Batch(cmd, m.refreshTick())

	case playingChangedMsg:
		m.playback.IsPlaying = bool(msg)
		m.syncProgress()
		cmds := []tea.Cmd{m.app.waitForPlayback()}
		if bool(msg) && !m.polling {
			m.polling = true
			m.progressGen++
			cmds = append(cmds, m.progressTick(m.progressGen))
		} else if !msg {
			m.polling = false
		}
		return m, tea.Batch(cmds...)

	case progressTickMsg:
		if !m.polling || msg.gen != m.progressGen {
			return m, nil
		}
		m.syncProgress()
		return m, m.progressTick(msg.gen)

	case trackLoadedMsg:
		if msg.url == m.pendingURL {
			m.pendingURL = ""
		}
		// A slower load for an earlier selection must not win.
		if !m.isSelected(msg.url) {
			return m, nil
		}
		m.loadedURL = msg.url
		return m, nil

	case playbackErrMsg:
		if msg.url != "" && msg.url == m.pendingURL {
			m.pendingURL = ""
		}
		if errors.Is(msg.err, context.Canceled) || (msg.url != "" && !m.isSelected(msg.url)) {
			return m, nil
		}
		slog.Warn("playback failed", "error", msg.err)
		return m.showToast("Playback failed: " + msg.err.Error())

	case favoritesLoadedMsg:
		if msg.err != nil {
			slog.Warn("failed to load favorites", "error", msg.err)
			return m, nil
		}
		m.favorites = msg.set
		if m.playback.Song != nil {
			m.isFavorite = m.favorites.Contains(m.playback.Song.Title)
		}
		return m, nil

	case favoriteToggledMsg:
		return m.onFavoriteToggled(msg)

	case summaryMsg:
		if !m.showSummary || msg.audioURL != m.summaryFor {
			return m, nil
		}
		m.summaryLoading = false
		m.summary = songs.CleanSummary(msg.text)
		return m, nil

	case chartsMsg:
		m.chartsLoading = false
		m.chartsErr = ""
		if msg.err != nil {
			m.chartsErr = fmt.Sprintf("Failed to load charts: %v", msg.err)
			return m, nil
		}
		m.charts = msg.result.Data
		if len(msg.result.Errors) == len(core.ChartKinds) {
			m.chartsErr = fmt.Sprintf("Failed to load charts: %v", msg.result.Errors[0])
		}
		return m, nil

	case savedMsg:
		m.savedLoading = false
		if msg.err != nil {
			return m.showToast("Failed to load saved songs: " + msg.err.Error())
		}
		m.saved = msg.saved
		if m.savedCursor >= len(m.saved) {
			m.savedCursor = max(len(m.saved)-1, 0)
		}
		return m, nil

	case toastMsg:
		return m.showToast(string(msg))

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil
	}

	return m, nil
}

func (m Model) isSelected(url string) bool {
	return m.playback.Song != nil && m.playback.Song.AudioURL == url
}

func (m *Model) syncProgress() {
	if m.playback.Song == nil {
		return
	}
	m.playback.Position = m.app.player.Position()
	m.playback.Duration = m.app.player.Duration()
}

func (m Model) showToast(text string) (Model, tea.Cmd) {
	m.toast = text
	m.toastID++
	id := m.toastID
	return m, tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// FetchSongs reloads the playlist in the background.
func (m Model) FetchSongs(force bool) (Model, tea.Cmd) {
	m.loading = true
	m.err = nil
	return m, m.fetchSongsCmd(force)
}

// OnSongClick toggles playback of the selected song, or selects and plays song.
func (m Model) OnSongClick(song core.Song) (Model, tea.Cmd) {
	if m.playback.Song != nil && m.playback.Song.Same(song) {
		return m.PlayPause()
	}

	selected := song
	m.playback = core.PlaybackState{Song: &selected}
	m.isFavorite = m.favorites.Contains(song.Title)
	m.polling = false
	m.progressGen++
	m.pendingURL = song.AudioURL
	return m, m.playCmd(song.AudioURL)
}

// PlayPause pauses a playing song and otherwise resumes or replays the selection.
func (m Model) PlayPause() (Model, tea.Cmd) {
	if m.playback.Song == nil {
		return m, nil
	}

	player := m.app.player
	if m.playback.IsPlaying {
		return m, func() tea.Msg {
			if err := player.Pause(); err != nil {
				return playbackErrMsg{err: err}
			}
			return nil
		}
	}

	url := m.playback.Song.AudioURL
	if m.pendingURL == url {
		return m, nil
	}
	if m.loadedURL != url {
		m.pendingURL = url
		return m, m.playCmd(url)
	}
	return m, func() tea.Msg {
		if err := player.Resume(); err != nil {
			if errors.Is(err, lilterrors.ErrNoSongSelected) {
				return m.playCmd(url)()
			}
			return playbackErrMsg{err: err}
		}
		return nil
	}
}

// SkipNext selects the song after the current one. No-op at the end.
func (m Model) SkipNext() (Model, tea.Cmd) {
	return m.skip(1)
}

// SkipPrevious selects the song before the current one. No-op at the start.
func (m Model) SkipPrevious() (Model, tea.Cmd) {
	return m.skip(-1)
}

func (m Model) skip(delta int) (Model, tea.Cmd) {
	if m.playback.Song == nil {
		return m, nil
	}
	idx := core.IndexOf(m.songs, *m.playback.Song)
	if idx == -1 {
		return m, nil
	}
	next := idx + delta
	if next < 0 || next >= len(m.songs) {
		return m, nil
	}
	m.cursor = next
	return m.OnSongClick(m.songs[next])
}

// OnSeek moves playback to position.
func (m Model) OnSeek(position time.Duration) (Model, tea.Cmd) {
	if m.playback.Song == nil {
		return m, nil
	}
	if position < 0 {
		position = 0
	}
	if m.playback.Duration > 0 && position > m.playback.Duration {
		position = m.playback.Duration
	}
	m.playback.Position = position

	player := m.app.player
	return m, func() tea.Msg {
		if err := player.SeekTo(position); err != nil {
			return playbackErrMsg{err: err}
		}
		return nil
	}
}

// ToggleFavoriteStatus saves or removes the selected song.
func (m Model) ToggleFavoriteStatus() (Model, tea.Cmd) {
	if m.playback.Song == nil {
		return m, nil
	}
	if !m.app.SignedIn() {
		return m.showToast(toastSignInRequired)
	}
	return m, m.setFavoriteCmd(*m.playback.Song, !m.isFavorite)
}

func (m Model) setFavoriteCmd(song core.Song, save bool) tea.Cmd {
	app := m.app
	return func() tea.Msg {
		var err error
		if save {
			err = app.store.Save(app.ctx, app.userID, song)
		} else {
			err = app.store.Delete(app.ctx, app.userID, song.Title)
		}
		return favoriteToggledMsg{song: song, saved: save, err: err}
	}
}

func (m Model) onFavoriteToggled(msg favoriteToggledMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		slog.Warn("failed to update favorite", "title", msg.song.Title, "error", msg.err)
		if msg.saved {
			return m.showToast("Failed to save song: " + msg.err.Error())
		}
		return m.showToast("Failed to remove song: " + msg.err.Error())
	}

	text := toastRemoved
	if msg.saved {
		m.favorites = m.favorites.With(msg.song.Title)
		text = toastSaved
	} else {
		m.favorites = m.favorites.Without(msg.song.Title)
	}
	if m.playback.Song != nil && m.playback.Song.Title == msg.song.Title {
		m.isFavorite = msg.saved
	}

	next, cmd := m.showToast(text)
	if next.screen == ScreenSaved {
		next.savedLoading = true
		return next, tea.Batch(cmd, next.loadSavedCmd())
	}
	return next, cmd
}

// OpenPlayer shows the full-screen player.
func (m Model) OpenPlayer() (Model, tea.Cmd) {
	if m.playback.Song != nil {
		m.showPlayer = true
	}
	return m, nil
}

// ClosePlayer returns to the list view.
func (m Model) ClosePlayer() (Model, tea.Cmd) {
	m.showPlayer = false
	return m, nil
}

// ShowSummary opens the summary dialog for the selected song.
func (m Model) ShowSummary() (Model, tea.Cmd) {
	if m.playback.Song == nil {
		return m, nil
	}
	song := *m.playback.Song
	m.showSummary = true
	m.summaryLoading = true
	m.summaryFor = song.AudioURL
	m.summary = ""

	app := m.app
	return m, func() tea.Msg {
		return summaryMsg{audioURL: song.AudioURL, text: app.songs.FetchSongSummary(app.ctx, song)}
	}
}

// DismissSummary closes the summary dialog.
func (m Model) DismissSummary() (Model, tea.Cmd) {
	m.showSummary = false
	m.summaryLoading = false
	m.summaryFor = ""
	m.summary = ""
	return m, nil
}

// SetScreen switches the top-level view and loads its data on first visit.
func (m Model) SetScreen(s Screen) (Model, tea.Cmd) {
	m.screen = s
	switch s {
	case ScreenCharts:
		if m.charts == nil && !m.chartsLoading {
			m.chartsLoading = true
			return m, m.loadChartsCmd()
		}
	case ScreenSaved:
		if m.app.SignedIn() && !m.savedLoading {
			m.savedLoading = true
			return m, m.loadSavedCmd()
		}
	}
	return m, nil
}

// focusSong returns the song the cursor is on for the current screen, falling
// back to the selection.
func (m Model) focusSong() *core.Song {
	switch m.screen {
	case ScreenHome:
		if m.cursor < len(m.songs) {
			s := m.songs[m.cursor]
			return &s
		}
	case ScreenSaved:
		if m.savedCursor < len(m.saved) {
			s := m.saved[m.savedCursor].Song
			return &s
		}
	}
	return m.playback.Song
}

func (m Model) copySong() tea.Cmd {
	song := m.focusSong()
	if song == nil {
		return nil
	}
	copyText := m.app.copyText
	return func() tea.Msg {
		if err := copyText(song.Label()); err != nil {
			return toastMsg("Copy failed: " + err.Error())
		}
		return toastMsg("Copied \"" + song.Label() + "\"")
	}
}

func (m Model) openYouTube() tea.Cmd {
	song := m.focusSong()
	if song == nil {
		return nil
	}
	openURL := m.app.openURL
	return func() tea.Msg {
		if err := openURL(browser.YouTubeSearchURL(song.Title, song.Artist)); err != nil {
			return toastMsg("Could not open browser: " + err.Error())
		}
		return toastMsg("Opened YouTube search")
	}
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys (always work)
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	// Help overlay
	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}

	// Summary dialog
	if m.showSummary {
		switch msg.String() {
		case "esc", "enter", "s", "q":
			return m.DismissSummary()
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "?":
		m.showHelp = true
		return m, nil
	case "esc":
		return m.ClosePlayer()
	case "o":
		if m.showPlayer {
			return m.ClosePlayer()
		}
		return m.OpenPlayer()
	case "tab":
		return m.SetScreen((m.screen + 1) % Screen(len(screenNames)))
	case "shift+tab":
		return m.SetScreen((m.screen + Screen(len(screenNames)) - 1) % Screen(len(screenNames)))
	}

	// Playback controls
	switch msg.String() {
	case " ":
		return m.PlayPause()
	case "n":
		return m.SkipNext()
	case "p":
		return m.SkipPrevious()
	case "right":
		return m.OnSeek(m.playback.Position + seekStep)
	case "left":
		return m.OnSeek(m.playback.Position - seekStep)
	case "f":
		return m.ToggleFavoriteStatus()
	case "s":
		return m.ShowSummary()
	case "y":
		return m, m.copySong()
	case "w":
		return m, m.openYouTube()
	}

	if m.showPlayer {
		return m, nil
	}

	switch m.screen {
	case ScreenHome:
		return m.handleHomeKey(msg)
	case ScreenCharts:
		return m.handleChartsKey(msg)
	case ScreenSaved:
		return m.handleSavedKey(msg)
	}
	return m, nil
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "j", "down":
		if m.cursor < len(m.songs)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = max(len(m.songs)-1, 0)
	case "enter":
		if m.cursor < len(m.songs) {
			return m.OnSongClick(m.songs[m.cursor])
		}
	case "r":
		return m.FetchSongs(true)
	case "1", "2", "3", "4", "5":
		i := int(key[0] - '1')
		if i < len(m.picks) {
			return m.OnSongClick(m.picks[i])
		}
	}
	return m, nil
}

func (m Model) handleChartsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.chartsView.ScrollDown()
	case "k", "up":
		m.chartsView.ScrollUp()
	case "]", "l":
		m.chartIndex = (m.chartIndex + 1) % len(core.ChartKinds)
		m.chartsView.Reset()
	case "[", "h":
		m.chartIndex = (m.chartIndex + len(core.ChartKinds) - 1) % len(core.ChartKinds)
		m.chartsView.Reset()
	case "r":
		if !m.chartsLoading {
			m.chartsLoading = true
			m.chartsErr = ""
			return m, m.loadChartsCmd()
		}
	}
	return m, nil
}

func (m Model) handleSavedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.savedCursor < len(m.saved)-1 {
			m.savedCursor++
		}
	case "k", "up":
		if m.savedCursor > 0 {
			m.savedCursor--
		}
	case "enter":
		if m.savedCursor < len(m.saved) {
			return m.OnSongClick(m.saved[m.savedCursor].Song)
		}
	case "d", "x":
		if m.app.SignedIn() && m.savedCursor < len(m.saved) {
			return m, m.setFavoriteCmd(m.saved[m.savedCursor].Song, false)
		}
	case "r":
		return m.SetScreen(ScreenSaved)
	}
	return m, nil
}
