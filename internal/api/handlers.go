package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo"

	"github.com/tessro/lilt/internal/core"
	"github.com/tessro/lilt/internal/favorites"
	"github.com/tessro/lilt/internal/session"
	"github.com/tessro/lilt/internal/songs"
)

func message(c echo.Context, code int, msg string) error {
	return c.JSON(code, echo.Map{
		"message": msg,
	})
}

func (s *Server) health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (s *Server) listSongs(c echo.Context) error {
	force, _ := strconv.ParseBool(c.QueryParam("force"))

	list, err := s.songs.FetchSongs(c.Request().Context(), force)
	if err != nil {
		return message(c, http.StatusBadGateway, err.Error())
	}
	if list == nil {
		list = []core.Song{}
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) songSummary(c echo.Context) error {
	song := core.Song{
		Title:  strings.TrimSpace(c.QueryParam("title")),
		Artist: strings.TrimSpace(c.QueryParam("artist")),
	}
	if song.Title == "" || song.Artist == "" {
		return message(c, http.StatusBadRequest, "title and artist are required")
	}

	text := s.songs.FetchSongSummary(c.Request().Context(), song)
	return c.JSON(http.StatusOK, echo.Map{
		"title":   song.Title,
		"artist":  song.Artist,
		"summary": songs.CleanSummary(text),
	})
}

func (s *Server) listCharts(c echo.Context) error {
	result, err := s.charts.FetchAll(c.Request().Context())
	if err != nil {
		return message(c, http.StatusServiceUnavailable, err.Error())
	}

	errs := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		errs = append(errs, e.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"charts": result.Data,
		"errors": errs,
	})
}

func (s *Server) getChart(c echo.Context) error {
	kind, ok := core.ParseChartKind(c.Param("kind"))
	if !ok {
		return message(c, http.StatusNotFound, "unknown chart: "+c.Param("kind"))
	}

	chart, err := s.charts.Load(c.Request().Context(), kind)
	if err != nil {
		return message(c, http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, chart)
}

func (s *Server) listFavorites(c echo.Context) error {
	saved, err := s.store.List(c.Request().Context(), userIDFromContext(c))
	if err != nil {
		return message(c, http.StatusInternalServerError, err.Error())
	}
	if saved == nil {
		saved = []favorites.Saved{}
	}
	return c.JSON(http.StatusOK, saved)
}

func (s *Server) saveFavorite(c echo.Context) error {
	var song core.Song
	if err := c.Bind(&song); err != nil {
		return message(c, http.StatusBadRequest, "invalid song")
	}
	if !song.IsComplete() {
		return message(c, http.StatusBadRequest, "title, artist and audioUrl are required")
	}

	if err := s.store.Save(c.Request().Context(), userIDFromContext(c), song); err != nil {
		return message(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, song)
}

func (s *Server) deleteFavorite(c echo.Context) error {
	title, err := url.PathUnescape(c.Param("title"))
	if err != nil || strings.TrimSpace(title) == "" {
		return message(c, http.StatusBadRequest, "invalid title")
	}

	if err := s.store.Delete(c.Request().Context(), userIDFromContext(c), title); err != nil {
		return message(c, http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func userIDFromContext(c echo.Context) string {
	id, _ := c.Get("user").(*jwt.Token).Claims.(jwt.MapClaims)[session.ClaimUserID].(string)
	return id
}
