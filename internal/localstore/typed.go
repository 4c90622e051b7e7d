package localstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/showdeck/showdeck/internal/trakt"
)

// Typed wraps a Store with JSON accessors for the durable state.
type Typed struct {
	store Store
}

// NewTyped wraps a store.
func NewTyped(store Store) *Typed {
	return &Typed{store: store}
}

func (t *Typed) get(ctx context.Context, key string, out interface{}) (bool, error) {
	data, ok, err := t.store.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to decode key %s: %w", key, err)
	}
	return true, nil
}

func (t *Typed) set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode key %s: %w", key, err)
	}
	return t.store.Set(ctx, key, data)
}

// Session returns the stored token pair, if any.
func (t *Typed) Session(ctx context.Context) (*trakt.AuthTokens, bool, error) {
	var tokens trakt.AuthTokens
	ok, err := t.get(ctx, KeySession, &tokens)
	if !ok {
		return nil, false, err
	}
	return &tokens, true, nil
}

// SetSession stores a token pair.
func (t *Typed) SetSession(ctx context.Context, tokens *trakt.AuthTokens) error {
	return t.set(ctx, KeySession, tokens)
}

// ClearSession removes the stored token pair and user profile.
func (t *Typed) ClearSession(ctx context.Context) error {
	if err := t.store.Delete(ctx, KeySession); err != nil {
		return err
	}
	return t.store.Delete(ctx, KeyUser)
}

// User returns the stored user profile, if any.
func (t *Typed) User(ctx context.Context) (*trakt.UserSettings, bool, error) {
	var settings trakt.UserSettings
	ok, err := t.get(ctx, KeyUser, &settings)
	if !ok {
		return nil, false, err
	}
	return &settings, true, nil
}

// SetUser stores the user profile.
func (t *Typed) SetUser(ctx context.Context, settings *trakt.UserSettings) error {
	return t.set(ctx, KeyUser, settings)
}

// Ratings returns the stored rating collection for the kind, if any.
func (t *Typed) Ratings(ctx context.Context, kind trakt.RatingKind) (*trakt.RatingSet, bool, error) {
	var set trakt.RatingSet
	ok, err := t.get(ctx, RatingsKey(string(kind)), &set)
	if !ok {
		return nil, false, err
	}
	return &set, true, nil
}

// SetRatings replaces the stored rating collection for the kind.
func (t *Typed) SetRatings(ctx context.Context, kind trakt.RatingKind, set *trakt.RatingSet) error {
	return t.set(ctx, RatingsKey(string(kind)), set)
}

// Likes returns the stored liked comments, if any.
func (t *Typed) Likes(ctx context.Context) ([]trakt.Like, bool, error) {
	var likes []trakt.Like
	ok, err := t.get(ctx, KeyLikes, &likes)
	if !ok {
		return nil, false, err
	}
	return likes, true, nil
}

// SetLikes replaces the stored liked comments.
func (t *Typed) SetLikes(ctx context.Context, likes []trakt.Like) error {
	return t.set(ctx, KeyLikes, likes)
}

// WatchedMovies returns the stored watched movies, if any.
func (t *Typed) WatchedMovies(ctx context.Context) ([]trakt.WatchedMovie, bool, error) {
	var watched []trakt.WatchedMovie
	ok, err := t.get(ctx, KeyWatchedMovies, &watched)
	if !ok {
		return nil, false, err
	}
	return watched, true, nil
}

// SetWatchedMovies replaces the stored watched movies.
func (t *Typed) SetWatchedMovies(ctx context.Context, watched []trakt.WatchedMovie) error {
	return t.set(ctx, KeyWatchedMovies, watched)
}

// WatchedShows returns stored per-show watched progress keyed by show
// trakt id, if any.
func (t *Typed) WatchedShows(ctx context.Context) (map[int]trakt.WatchedProgress, bool, error) {
	var watched map[int]trakt.WatchedProgress
	ok, err := t.get(ctx, KeyWatchedShows, &watched)
	if !ok {
		return nil, false, err
	}
	return watched, true, nil
}

// SetWatchedShow upserts one show's watched progress.
func (t *Typed) SetWatchedShow(ctx context.Context, showTraktID int, progress trakt.WatchedProgress) error {
	watched, ok, err := t.WatchedShows(ctx)
	if err != nil {
		return err
	}
	if !ok {
		watched = make(map[int]trakt.WatchedProgress)
	}
	watched[showTraktID] = progress
	return t.set(ctx, KeyWatchedShows, watched)
}
