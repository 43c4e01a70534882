package userrepository

import (
	"context"

	"github.com/Amund211/pilgrim/internal/domain"
)

type UserRepository interface {
	// RegisterLogin records a login at the current time and returns the updated summary
	RegisterLogin(ctx context.Context, userID string) (domain.UserLogins, error)
}

var (
	_ UserRepository = (*Postgres)(nil)
	_ UserRepository = (*InMemory)(nil)
)
