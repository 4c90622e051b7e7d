package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/showdeck/showdeck/internal/aggregator"
	"github.com/showdeck/showdeck/internal/auth"
	"github.com/showdeck/showdeck/internal/ratingsync"
	"github.com/showdeck/showdeck/internal/tmdb"
	"github.com/showdeck/showdeck/internal/trakt"
)

// httpError maps provider errors to response codes.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, aggregator.ErrMissingID):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, trakt.ErrNotFound), errors.Is(err, tmdb.ErrNotFound), errors.Is(err, aggregator.ErrNoCollection):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, trakt.ErrRateLimited), errors.Is(err, tmdb.ErrRateLimited):
		return echo.NewHTTPError(http.StatusTooManyRequests, err.Error())
	case errors.Is(err, trakt.ErrNotConfigured), errors.Is(err, tmdb.ErrNotConfigured):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, trakt.ErrNoSession):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
}

func intParam(c echo.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return v, nil
}

func (s *Server) getShowCard(c echo.Context) error {
	card, err := s.aggregator.GetShowCard(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, card)
}

func (s *Server) getMovieCard(c echo.Context) error {
	card, err := s.aggregator.GetMovieCard(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, card)
}

func (s *Server) getEpisodeCard(c echo.Context) error {
	season, err := intParam(c, "season")
	if err != nil {
		return err
	}
	episode, err := intParam(c, "episode")
	if err != nil {
		return err
	}

	card, err := s.aggregator.GetEpisodeCard(c.Request().Context(), c.Param("id"), season, episode)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, card)
}

func (s *Server) getShowDetails(c echo.Context) error {
	details, err := s.aggregator.GetShowDetails(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, details)
}

func (s *Server) getMovieDetails(c echo.Context) error {
	details, err := s.aggregator.GetMovieDetails(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, details)
}

func (s *Server) getSeasonDetails(c echo.Context) error {
	season, err := intParam(c, "season")
	if err != nil {
		return err
	}

	details, err := s.aggregator.GetSeasonDetails(c.Request().Context(), c.Param("id"), season)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, details)
}

func (s *Server) getEpisodeDetails(c echo.Context) error {
	season, err := intParam(c, "season")
	if err != nil {
		return err
	}
	episode, err := intParam(c, "episode")
	if err != nil {
		return err
	}

	details, err := s.aggregator.GetEpisodeDetails(c.Request().Context(), c.Param("id"), season, episode)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, details)
}

func (s *Server) getMovieCollection(c echo.Context) error {
	collection, err := s.aggregator.GetMovieCollection(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, collection)
}

func (s *Server) search(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))

	results, err := s.aggregator.Search(c.Request().Context(), query, page)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, results)
}

func (s *Server) getGenres(c echo.Context) error {
	genres, err := s.aggregator.Genres(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, genres)
}

func (s *Server) getAppBackground(c echo.Context) error {
	url, err := s.aggregator.AppBackground(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

func (s *Server) authLogin(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"url": s.auth.AuthorizeURL()})
}

type exchangeRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

func (s *Server) authExchange(c echo.Context) error {
	var req exchangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "code is required")
	}

	settings, err := s.auth.Exchange(c.Request().Context(), req.Code, req.State)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidState) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return httpError(err)
	}

	// A new session makes the personal state worth syncing right away.
	// The request context dies with the response, so the background
	// pass gets its own.
	go s.sync.SyncAll(context.Background())

	return c.JSON(http.StatusOK, settings)
}

func (s *Server) authLogout(c echo.Context) error {
	if err := s.auth.SignOut(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) authStatus(c echo.Context) error {
	settings, err := s.auth.User(c.Request().Context())
	if err != nil {
		if errors.Is(err, auth.ErrNoSession) {
			return c.JSON(http.StatusOK, map[string]interface{}{"signed_in": false})
		}
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"signed_in": true, "user": settings.User})
}

func (s *Server) triggerSync(c echo.Context) error {
	section := c.Param("section")
	if section != "shows" && section != "movies" {
		return echo.NewHTTPError(http.StatusBadRequest, ratingsync.ErrUnknownSection.Error())
	}

	// Fire and forget: the UI is not blocked on sync completion.
	go func() {
		if err := s.sync.SyncSection(context.Background(), section); err != nil {
			s.logger.Warn().Err(err).Str("section", section).Msg("Background sync failed")
		}
	}()

	return c.NoContent(http.StatusAccepted)
}

func (s *Server) clearCache(c echo.Context) error {
	if err := s.aggregator.ClearCache(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
