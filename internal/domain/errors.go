package domain

import "errors"

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrUnknownAchievement  = errors.New("unknown achievement")
	ErrUnknownCampaign     = errors.New("unknown campaign")
	ErrInvalidLevel        = errors.New("invalid level")
	ErrInvalidVerse        = errors.New("invalid verse")
	ErrUnknownSocialAction = errors.New("unknown social action")
	ErrUnknownSurface      = errors.New("unknown surface")
	ErrDailyRewardNotReady = errors.New("daily reward not ready")
	ErrInvalidLevelTable   = errors.New("invalid level table")
	ErrInvalidCatalog      = errors.New("invalid achievement catalog")

	ErrNoSession              = errors.New("no session")
	ErrTicketNotFound         = errors.New("ticket not found")
	ErrInvalidTicket          = errors.New("invalid ticket")
	ErrTemporarilyUnavailable = errors.New("temporarily unavailable")
	ErrInvalidGuideMessage    = errors.New("invalid guide message")
)
