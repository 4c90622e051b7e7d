// Package ratingsync mirrors the user's personal state (ratings, liked
// comments, watch history) from the tracking service into the local
// store. Collections are replaced wholesale; there is no partial merge.
package ratingsync

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/showdeck/showdeck/internal/localstore"
	"github.com/showdeck/showdeck/internal/trakt"
)

// Result reports what a sync pass did for one collection.
type Result string

const (
	// ResultUpToDate means the probe markers matched the stored copy.
	ResultUpToDate Result = "up_to_date"
	// ResultRefreshed means the collection was re-fetched and replaced.
	ResultRefreshed Result = "refreshed"
	// ResultSkipped means no session was available.
	ResultSkipped Result = "skipped"
)

// ErrUnknownSection is returned for sync sections other than "shows"
// and "movies".
var ErrUnknownSection = errors.New("unknown sync section")

// TrackingClient is the tracking service surface the syncer uses.
type TrackingClient interface {
	MyRatingsProbe(ctx context.Context, kind trakt.RatingKind) (*trakt.RatingSet, error)
	MyRatings(ctx context.Context, kind trakt.RatingKind) (*trakt.RatingSet, error)
	Likes(ctx context.Context, page, limit int) ([]trakt.Like, int, error)
	WatchedMovies(ctx context.Context) ([]trakt.WatchedMovie, error)
	WatchedProgress(ctx context.Context, showTraktID int) (*trakt.WatchedProgress, error)
}

// Service keeps the local copies of user state current.
type Service struct {
	tracking  TrackingClient
	store     *localstore.Typed
	logger    zerolog.Logger
	pageLimit int
}

// NewService creates a syncer. pageLimit bounds likes pagination.
func NewService(tracking TrackingClient, store *localstore.Typed, pageLimit int, logger zerolog.Logger) *Service {
	if pageLimit <= 0 {
		pageLimit = 100
	}
	return &Service{
		tracking:  tracking,
		store:     store,
		logger:    logger.With().Str("component", "ratingsync").Logger(),
		pageLimit: pageLimit,
	}
}

// SyncRatings brings one rating collection up to date. A cheap one-item
// probe reads the upstream change marker and total; only when either
// differs from the stored copy is the full collection fetched and
// replaced.
func (s *Service) SyncRatings(ctx context.Context, kind trakt.RatingKind) (Result, error) {
	probe, err := s.tracking.MyRatingsProbe(ctx, kind)
	if err != nil {
		if errors.Is(err, trakt.ErrNoSession) {
			return ResultSkipped, nil
		}
		return "", fmt.Errorf("probe failed for %s: %w", kind, err)
	}

	stored, ok, err := s.store.Ratings(ctx, kind)
	if err != nil {
		return "", err
	}
	if ok && stored.LastModified == probe.LastModified && stored.Total == probe.Total {
		s.logger.Debug().Str("kind", string(kind)).Msg("Ratings up to date")
		return ResultUpToDate, nil
	}

	full, err := s.tracking.MyRatings(ctx, kind)
	if err != nil {
		return "", fmt.Errorf("full fetch failed for %s: %w", kind, err)
	}
	// Keep the probe's marker: the list endpoint and the probe see the
	// same upstream state within one pass.
	if full.LastModified == "" {
		full.LastModified = probe.LastModified
	}
	if err := s.store.SetRatings(ctx, kind, full); err != nil {
		return "", err
	}

	s.logger.Info().Str("kind", string(kind)).Int("total", full.Total).Msg("Ratings refreshed")
	return ResultRefreshed, nil
}

// SyncLikes refreshes the liked-comments list. The first page's head is
// compared against the stored head; matching heads with an unchanged
// length are treated as up to date. Likes removed or inserted behind an
// identical head therefore go unnoticed until something touches the
// head of the list.
func (s *Service) SyncLikes(ctx context.Context) (Result, error) {
	page, pageCount, err := s.tracking.Likes(ctx, 1, s.pageLimit)
	if err != nil {
		if errors.Is(err, trakt.ErrNoSession) {
			return ResultSkipped, nil
		}
		return "", fmt.Errorf("likes fetch failed: %w", err)
	}

	stored, ok, err := s.store.Likes(ctx)
	if err != nil {
		return "", err
	}
	if ok && likesHeadMatches(stored, page) && pageCount <= 1 && len(stored) == len(page) {
		s.logger.Debug().Msg("Likes up to date")
		return ResultUpToDate, nil
	}

	all := page
	for p := 2; p <= pageCount; p++ {
		next, _, err := s.tracking.Likes(ctx, p, s.pageLimit)
		if err != nil {
			return "", fmt.Errorf("likes page %d failed: %w", p, err)
		}
		all = append(all, next...)
	}
	if err := s.store.SetLikes(ctx, all); err != nil {
		return "", err
	}

	s.logger.Info().Int("count", len(all)).Msg("Likes refreshed")
	return ResultRefreshed, nil
}

func likesHeadMatches(stored, fetched []trakt.Like) bool {
	if len(stored) == 0 || len(fetched) == 0 {
		return len(stored) == len(fetched)
	}
	return stored[0].LikedAt == fetched[0].LikedAt &&
		stored[0].Comment.ID == fetched[0].Comment.ID
}

// SyncWatchedMovies replaces the stored watched-movies list.
func (s *Service) SyncWatchedMovies(ctx context.Context) (Result, error) {
	watched, err := s.tracking.WatchedMovies(ctx)
	if err != nil {
		if errors.Is(err, trakt.ErrNoSession) {
			return ResultSkipped, nil
		}
		return "", fmt.Errorf("watched movies fetch failed: %w", err)
	}
	if err := s.store.SetWatchedMovies(ctx, watched); err != nil {
		return "", err
	}

	s.logger.Info().Int("count", len(watched)).Msg("Watched movies refreshed")
	return ResultRefreshed, nil
}

// SyncWatchedShow refreshes one show's watched progress.
func (s *Service) SyncWatchedShow(ctx context.Context, showTraktID int) error {
	progress, err := s.tracking.WatchedProgress(ctx, showTraktID)
	if err != nil {
		if errors.Is(err, trakt.ErrNoSession) {
			return nil
		}
		return fmt.Errorf("watched progress fetch failed: %w", err)
	}
	return s.store.SetWatchedShow(ctx, showTraktID, *progress)
}

// SyncSection syncs everything behind one media section. Individual
// failures are logged and do not stop the rest of the pass.
func (s *Service) SyncSection(ctx context.Context, section string) error {
	switch section {
	case "shows":
		for _, kind := range []trakt.RatingKind{trakt.RatingKindShow, trakt.RatingKindSeason, trakt.RatingKindEpisode} {
			if _, err := s.SyncRatings(ctx, kind); err != nil {
				s.logger.Warn().Err(err).Str("kind", string(kind)).Msg("Ratings sync failed")
			}
		}
	case "movies":
		if _, err := s.SyncRatings(ctx, trakt.RatingKindMovie); err != nil {
			s.logger.Warn().Err(err).Msg("Movie ratings sync failed")
		}
		if _, err := s.SyncWatchedMovies(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("Watched movies sync failed")
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}

	if _, err := s.SyncLikes(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Likes sync failed")
	}
	return nil
}

// SyncAll runs both sections; used by the periodic scheduler.
func (s *Service) SyncAll(ctx context.Context) {
	if err := s.SyncSection(ctx, "shows"); err != nil {
		s.logger.Warn().Err(err).Msg("Shows sync failed")
	}
	if err := s.SyncSection(ctx, "movies"); err != nil {
		s.logger.Warn().Err(err).Msg("Movies sync failed")
	}
}
