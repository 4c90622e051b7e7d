// Package localstore persists durable per-user state (session tokens,
// rating collections, likes, watch history) under stable string keys.
package localstore

import "context"

// Durable keys. These survive restarts and cache clears.
const (
	KeySession       = "showdeck-token"
	KeyUser          = "showdeck-user"
	KeyLikes         = "showdeck-likes"
	KeyWatchedMovies = "showdeck-watched-movies"
	KeyWatchedShows  = "showdeck-watched-episodes"
	ratingsKeyPrefix = "showdeck-"
	ratingsKeySuffix = "-ratings"
)

// RatingsKey returns the durable key for a rating collection kind
// ("show", "season", "episode" or "movie").
func RatingsKey(kind string) string {
	return ratingsKeyPrefix + kind + ratingsKeySuffix
}

// Store is a durable key/value store.
type Store interface {
	// Get returns the stored value for key. The second return is false
	// when the key has never been set.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}
