package userrepository

import (
	"context"
	"fmt"
	"time"

	"github.com/Amund211/pilgrim/internal/domain"
	"github.com/Amund211/pilgrim/internal/reporting"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Postgres struct {
	db      *sqlx.DB
	schema  string
	tracer  trace.Tracer
	nowFunc func() time.Time
}

func NewPostgres(db *sqlx.DB, schema string, nowFunc func() time.Time) *Postgres {
	tracer := otel.Tracer("pilgrim/userrepository/postgres")
	return &Postgres{
		db:      db,
		schema:  schema,
		tracer:  tracer,
		nowFunc: nowFunc,
	}
}

type dbUserLogins struct {
	UserID       string    `db:"user_id"`
	FirstLoginAt time.Time `db:"first_login_at"`
	LastLoginAt  time.Time `db:"last_login_at"`
	LoginCount   int64     `db:"login_count"`
}

func (p *Postgres) RegisterLogin(ctx context.Context, userID string) (domain.UserLogins, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.RegisterLogin")
	defer span.End()

	if userID == "" {
		err := fmt.Errorf("userID is empty")
		reporting.Report(ctx, err)
		return domain.UserLogins{}, err
	}

	now := p.nowFunc()

	var logins dbUserLogins
	err := p.db.QueryRowxContext(
		ctx,
		fmt.Sprintf(`INSERT INTO %s.user_logins
		(user_id, first_login_at, last_login_at, login_count)
		VALUES ($1, $2, $2, 1)
		ON CONFLICT (user_id)
		DO UPDATE SET
			last_login_at = GREATEST(user_logins.last_login_at, EXCLUDED.last_login_at),
			login_count = user_logins.login_count + 1
		RETURNING user_id, first_login_at, last_login_at, login_count`,
			pq.QuoteIdentifier(p.schema)),
		userID,
		now,
	).StructScan(&logins)
	if err != nil {
		err := fmt.Errorf("failed to register login: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"userID": userID,
		})
		return domain.UserLogins{}, err
	}

	return domain.UserLogins{
		UserID:       logins.UserID,
		FirstLoginAt: logins.FirstLoginAt,
		LastLoginAt:  logins.LastLoginAt,
		LoginCount:   logins.LoginCount,
	}, nil
}
