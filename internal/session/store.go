package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Amund211/pilgrim/internal/adapters/cache"
	"github.com/Amund211/pilgrim/internal/domain"
)

const DEFAULT_TTL = 2 * time.Hour

type progressLoader interface {
	LoadProgress(ctx context.Context, userID string) (domain.PlayerProgress, error)
}

type session struct {
	mutex    sync.Mutex
	progress domain.PlayerProgress
}

// Store holds the authoritative in-memory progress of logged in users
//
// Sessions are created at login from the persistent copy and dropped at logout
// or after being idle for the ttl. Transitions on one session are serialized.
type Store struct {
	sessions cache.Cache[*session]
	loader   progressLoader
}

func NewStore(loader progressLoader, ttl time.Duration, logger *slog.Logger) *Store {
	onExpire := func(userID string) {
		logger.Info("Session expired", "userId", userID)
	}
	return &Store{
		sessions: cache.NewSlidingTTLCache[*session](ttl, onExpire),
		loader:   loader,
	}
}

// Login returns the session of the user, loading it from storage if there is none
//
// Concurrent logins for the same user load from storage once.
func (s *Store) Login(ctx context.Context, userID string) (domain.PlayerProgress, error) {
	sess, _, err := cache.GetOrCreate(ctx, s.sessions, userID, func() (*session, error) {
		progress, err := s.loader.LoadProgress(ctx, userID)
		if err != nil {
			// NOTE: progressLoader implementations handle their own error reporting
			return nil, fmt.Errorf("failed to load progress: %w", err)
		}
		return &session{progress: progress}, nil
	})
	if err != nil {
		return domain.PlayerProgress{}, fmt.Errorf("failed to create session: %w", err)
	}

	sess.mutex.Lock()
	defer sess.mutex.Unlock()
	return sess.progress.Clone(), nil
}

func (s *Store) Get(userID string) (domain.PlayerProgress, error) {
	sess, ok := s.sessions.Get(userID)
	if !ok {
		return domain.PlayerProgress{}, domain.ErrNoSession
	}

	sess.mutex.Lock()
	defer sess.mutex.Unlock()
	return sess.progress.Clone(), nil
}

// Apply runs a transition on the session of the user and stores the result
//
// A failing transition leaves the session unchanged. Returns the new progress and
// what changed.
func (s *Store) Apply(
	userID string,
	transition func(progress domain.PlayerProgress) (domain.PlayerProgress, error),
) (domain.PlayerProgress, domain.Delta, error) {
	sess, ok := s.sessions.Get(userID)
	if !ok {
		return domain.PlayerProgress{}, domain.Delta{}, domain.ErrNoSession
	}

	sess.mutex.Lock()
	defer sess.mutex.Unlock()

	before := sess.progress
	after, err := transition(before.Clone())
	if err != nil {
		return before.Clone(), domain.Delta{}, err
	}

	sess.progress = after
	return after.Clone(), domain.Diff(before, after), nil
}

func (s *Store) Logout(userID string) {
	s.sessions.Delete(userID)
}
