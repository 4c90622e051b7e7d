package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/showdeck/showdeck/internal/aggregator"
	"github.com/showdeck/showdeck/internal/aggregator/mock"
	"github.com/showdeck/showdeck/internal/auth"
	"github.com/showdeck/showdeck/internal/cache"
	"github.com/showdeck/showdeck/internal/config"
	"github.com/showdeck/showdeck/internal/localstore"
	"github.com/showdeck/showdeck/internal/ratingsync"
	"github.com/showdeck/showdeck/internal/trakt"
)

type fakeTokenClient struct{}

func (fakeTokenClient) ExchangeCode(ctx context.Context, code string) (*trakt.AuthTokens, error) {
	return &trakt.AuthTokens{AccessToken: "a", RefreshToken: "r", ExpiresIn: 7776000}, nil
}

func (fakeTokenClient) RefreshToken(ctx context.Context, refreshToken string) (*trakt.AuthTokens, error) {
	return nil, trakt.ErrAPIError
}

func (fakeTokenClient) UserSettings(ctx context.Context, accessToken string) (*trakt.UserSettings, error) {
	settings := &trakt.UserSettings{}
	settings.User.Username = "testuser"
	return settings, nil
}

type fakeSyncTracking struct{}

func (fakeSyncTracking) MyRatingsProbe(ctx context.Context, kind trakt.RatingKind) (*trakt.RatingSet, error) {
	return nil, trakt.ErrNoSession
}

func (fakeSyncTracking) MyRatings(ctx context.Context, kind trakt.RatingKind) (*trakt.RatingSet, error) {
	return nil, trakt.ErrNoSession
}

func (fakeSyncTracking) Likes(ctx context.Context, page, limit int) ([]trakt.Like, int, error) {
	return nil, 0, trakt.ErrNoSession
}

func (fakeSyncTracking) WatchedMovies(ctx context.Context) ([]trakt.WatchedMovie, error) {
	return nil, trakt.ErrNoSession
}

func (fakeSyncTracking) WatchedProgress(ctx context.Context, showTraktID int) (*trakt.WatchedProgress, error) {
	return nil, trakt.ErrNoSession
}

func newTestServer(tracking *mock.TrackingClient) *Server {
	store := localstore.NewTyped(localstore.NewMemoryStore())
	agg := aggregator.NewService(tracking, &mock.MetadataClient{}, &mock.ArtworkClient{}, &mock.RatingsClient{},
		store, cache.New(nil, zerolog.Nop()), zerolog.Nop())
	authSvc := auth.NewService(fakeTokenClient{}, store, config.TraktConfig{ClientID: "cid"}, zerolog.Nop())
	syncSvc := ratingsync.NewService(fakeSyncTracking{}, store, 100, zerolog.Nop())
	return NewServer(agg, authSvc, syncSvc, config.Default(), zerolog.Nop())
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(&mock.TrackingClient{})

	rec := doRequest(s, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestGetShowCard(t *testing.T) {
	tracking := &mock.TrackingClient{
		ShowSummaryFunc: func(ctx context.Context, id string) (*trakt.Show, error) {
			return &trakt.Show{
				Title: "Breaking Bad",
				Year:  2008,
				IDs:   trakt.IDs{Trakt: 1388, Slug: "breaking-bad"},
			}, nil
		},
	}
	s := newTestServer(tracking)

	rec := doRequest(s, http.MethodGet, "/api/v1/shows/breaking-bad/card", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var card aggregator.CardInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &card); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if card.Title != "Breaking Bad" {
		t.Errorf("unexpected card: %+v", card)
	}

	// Unavailable ratings serialize as explicit nulls, not absent keys.
	body := rec.Body.String()
	for _, key := range []string{`"rating":null`, `"imdb_rating":null`, `"tmdb_rating":null`, `"my_rating":null`} {
		if !strings.Contains(body, key) {
			t.Errorf("expected %s in response, got %s", key, body)
		}
	}
}

func TestGetShowCard_NotFound(t *testing.T) {
	tracking := &mock.TrackingClient{
		ShowSummaryFunc: func(ctx context.Context, id string) (*trakt.Show, error) {
			return nil, trakt.ErrNotFound
		},
	}
	s := newTestServer(tracking)

	rec := doRequest(s, http.MethodGet, "/api/v1/shows/nope/card", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestGetSeasonDetails_InvalidSeason(t *testing.T) {
	s := newTestServer(&mock.TrackingClient{})

	rec := doRequest(s, http.MethodGet, "/api/v1/shows/breaking-bad/seasons/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestTriggerSync(t *testing.T) {
	s := newTestServer(&mock.TrackingClient{})

	rec := doRequest(s, http.MethodPost, "/api/v1/sync/shows", "")
	if rec.Code != http.StatusAccepted {
		t.Errorf("expected 202, got %d", rec.Code)
	}

	rec = doRequest(s, http.MethodPost, "/api/v1/sync/albums", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown section, got %d", rec.Code)
	}
}

func TestClearCache(t *testing.T) {
	s := newTestServer(&mock.TrackingClient{})

	rec := doRequest(s, http.MethodDelete, "/api/v1/cache", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestAuthStatus_SignedOut(t *testing.T) {
	s := newTestServer(&mock.TrackingClient{})

	rec := doRequest(s, http.MethodGet, "/api/v1/auth/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"signed_in":false`) {
		t.Errorf("expected signed_in false, got %s", rec.Body.String())
	}
}

func TestAuthLogin(t *testing.T) {
	s := newTestServer(&mock.TrackingClient{})

	rec := doRequest(s, http.MethodGet, "/api/v1/auth/login", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "https://trakt.tv/oauth/authorize") {
		t.Errorf("expected authorize URL, got %s", rec.Body.String())
	}
}

func TestSearch_MissingQuery(t *testing.T) {
	s := newTestServer(&mock.TrackingClient{})

	rec := doRequest(s, http.MethodGet, "/api/v1/search", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestAuthExchange_MissingCode(t *testing.T) {
	s := newTestServer(&mock.TrackingClient{})

	rec := doRequest(s, http.MethodPost, "/api/v1/auth/exchange", `{"state":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
