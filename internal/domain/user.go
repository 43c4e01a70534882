package domain

import "time"

// UserLogins is the login history summary of one user
type UserLogins struct {
	UserID       string
	FirstLoginAt time.Time
	LastLoginAt  time.Time
	LoginCount   int64
}
