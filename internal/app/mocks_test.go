package app

import (
	"context"
	"sync"
	"testing"

	"github.com/Amund211/pilgrim/internal/domain"
	"github.com/stretchr/testify/require"
)

type mockSessionStore struct {
	t *testing.T

	userID   string
	progress *domain.PlayerProgress

	loginErr  error
	loggedOut bool
}

func newMockSessionStore(t *testing.T, progress domain.PlayerProgress) *mockSessionStore {
	return &mockSessionStore{
		t:        t,
		userID:   progress.UserID,
		progress: &progress,
	}
}

func (m *mockSessionStore) Login(ctx context.Context, userID string) (domain.PlayerProgress, error) {
	m.t.Helper()
	require.Equal(m.t, m.userID, userID)
	if m.loginErr != nil {
		return domain.PlayerProgress{}, m.loginErr
	}
	return m.progress.Clone(), nil
}

func (m *mockSessionStore) Get(userID string) (domain.PlayerProgress, error) {
	m.t.Helper()
	require.Equal(m.t, m.userID, userID)
	if m.progress == nil {
		return domain.PlayerProgress{}, domain.ErrNoSession
	}
	return m.progress.Clone(), nil
}

func (m *mockSessionStore) Apply(userID string, transition func(progress domain.PlayerProgress) (domain.PlayerProgress, error)) (domain.PlayerProgress, domain.Delta, error) {
	m.t.Helper()
	require.Equal(m.t, m.userID, userID)
	if m.progress == nil {
		return domain.PlayerProgress{}, domain.Delta{}, domain.ErrNoSession
	}

	before := m.progress.Clone()
	after, err := transition(before.Clone())
	if err != nil {
		return before, domain.Delta{}, err
	}
	m.progress = &after
	return after.Clone(), domain.Diff(before, after), nil
}

func (m *mockSessionStore) Logout(userID string) {
	m.t.Helper()
	require.Equal(m.t, m.userID, userID)
	m.loggedOut = true
	m.progress = nil
}

type mockSyncer struct {
	mutex  sync.Mutex
	deltas []domain.Delta
}

func (m *mockSyncer) Sync(ctx context.Context, delta domain.Delta) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.deltas = append(m.deltas, delta)
}
