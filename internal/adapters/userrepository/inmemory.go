package userrepository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Amund211/pilgrim/internal/domain"
)

type InMemory struct {
	mutex   sync.Mutex
	logins  map[string]domain.UserLogins
	nowFunc func() time.Time
}

func NewInMemory(nowFunc func() time.Time) *InMemory {
	return &InMemory{
		logins:  map[string]domain.UserLogins{},
		nowFunc: nowFunc,
	}
}

func (m *InMemory) RegisterLogin(ctx context.Context, userID string) (domain.UserLogins, error) {
	if userID == "" {
		return domain.UserLogins{}, fmt.Errorf("userID is empty")
	}

	now := m.nowFunc()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	logins, ok := m.logins[userID]
	if !ok {
		logins = domain.UserLogins{
			UserID:       userID,
			FirstLoginAt: now,
			LastLoginAt:  now,
		}
	}
	if now.After(logins.LastLoginAt) {
		logins.LastLoginAt = now
	}
	logins.LoginCount++

	m.logins[userID] = logins
	return logins, nil
}
