package progressrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Amund211/pilgrim/internal/domain"
	"github.com/Amund211/pilgrim/internal/reporting"
	"github.com/Amund211/pilgrim/internal/strutils"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Postgres struct {
	db     *sqlx.DB
	schema string

	tracer trace.Tracer
}

func NewPostgres(db *sqlx.DB, schema string) *Postgres {
	tracer := otel.Tracer("pilgrim/progressrepository/postgres")

	return &Postgres{
		db:     db,
		schema: schema,

		tracer: tracer,
	}
}

type dbUserEntry struct {
	UserID         string       `db:"user_id"`
	TotalPoints    int          `db:"total_points"`
	LastDailyClaim sql.NullTime `db:"last_daily_claim"`
}

type dbCampaignEntry struct {
	GameID  string `db:"game_id"`
	LevelID int    `db:"level_id"`
}

func (p *Postgres) checkUserID(ctx context.Context, userID string) error {
	if !strutils.UUIDIsNormalized(userID) {
		err := fmt.Errorf("user id is not normalized")
		reporting.Report(ctx, err, map[string]string{
			"userID": userID,
		})
		return err
	}
	return nil
}

// Run fn in a transaction with the search path set and the user row present
func (p *Postgres) withUser(ctx context.Context, userID string, fn func(txx *sqlx.Tx) error) error {
	txx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("failed to start transaction: %w", err)
		reporting.Report(ctx, err)
		return err
	}
	defer txx.Rollback()

	_, err = txx.ExecContext(ctx, fmt.Sprintf("SET LOCAL search_path TO %s", pq.QuoteIdentifier(p.schema)))
	if err != nil {
		err := fmt.Errorf("failed to set search path: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"schema": p.schema,
		})
		return err
	}

	_, err = txx.ExecContext(ctx, "INSERT INTO users (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING", userID)
	if err != nil {
		err := fmt.Errorf("failed to ensure user row: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"userID": userID,
		})
		return err
	}

	err = fn(txx)
	if err != nil {
		// NOTE: fn handles its own error reporting
		return err
	}

	err = txx.Commit()
	if err != nil {
		err := fmt.Errorf("failed to commit transaction: %w", err)
		reporting.Report(ctx, err)
		return err
	}

	return nil
}

func (p *Postgres) LoadProgress(ctx context.Context, userID string) (domain.PlayerProgress, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.LoadProgress")
	defer span.End()

	if err := p.checkUserID(ctx, userID); err != nil {
		return domain.PlayerProgress{}, err
	}

	txx, err := p.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		err := fmt.Errorf("failed to start transaction: %w", err)
		reporting.Report(ctx, err)
		return domain.PlayerProgress{}, err
	}
	defer txx.Rollback()

	_, err = txx.ExecContext(ctx, fmt.Sprintf("SET LOCAL search_path TO %s", pq.QuoteIdentifier(p.schema)))
	if err != nil {
		err := fmt.Errorf("failed to set search path: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"schema": p.schema,
		})
		return domain.PlayerProgress{}, err
	}

	progress := domain.NewPlayerProgress(userID)

	var user dbUserEntry
	err = txx.QueryRowxContext(ctx, "SELECT user_id, total_points, last_daily_claim FROM users WHERE user_id = $1", userID).StructScan(&user)
	if errors.Is(err, sql.ErrNoRows) {
		// New account
		return progress, nil
	} else if err != nil {
		err := fmt.Errorf("failed to select user: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"userID": userID,
		})
		return domain.PlayerProgress{}, err
	}

	progress.TotalPoints = user.TotalPoints
	if user.LastDailyClaim.Valid {
		progress.LastDailyClaim = user.LastDailyClaim.Time
	}

	var achievements []string
	err = txx.SelectContext(ctx, &achievements, "SELECT achievement_id FROM unlocked_achievements WHERE user_id = $1 ORDER BY unlocked_at ASC, achievement_id ASC", userID)
	if err != nil {
		err := fmt.Errorf("failed to select achievements: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"userID": userID,
		})
		return domain.PlayerProgress{}, err
	}
	for _, id := range achievements {
		progress.UnlockedAchievements = append(progress.UnlockedAchievements, domain.AchievementID(id))
	}

	err = txx.SelectContext(ctx, &progress.CollectedVerses, "SELECT verse_text FROM collected_verses WHERE user_id = $1 ORDER BY id ASC", userID)
	if err != nil {
		err := fmt.Errorf("failed to select verses: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"userID": userID,
		})
		return domain.PlayerProgress{}, err
	}
	if progress.CollectedVerses == nil {
		progress.CollectedVerses = []string{}
	}

	var campaigns []dbCampaignEntry
	err = txx.SelectContext(ctx, &campaigns, "SELECT game_id, level_id FROM user_progress WHERE user_id = $1", userID)
	if err != nil {
		err := fmt.Errorf("failed to select campaign progress: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"userID": userID,
		})
		return domain.PlayerProgress{}, err
	}
	for _, campaign := range campaigns {
		progress.CampaignProgress[domain.CampaignID(campaign.GameID)] = campaign.LevelID
	}

	return progress, nil
}

func (p *Postgres) PersistPoints(ctx context.Context, userID string, newTotal int) error {
	ctx, span := p.tracer.Start(ctx, "Postgres.PersistPoints")
	defer span.End()

	if err := p.checkUserID(ctx, userID); err != nil {
		return err
	}

	return p.withUser(ctx, userID, func(txx *sqlx.Tx) error {
		// Sync calls may land out of order, stored points never decrease
		_, err := txx.ExecContext(
			ctx,
			`UPDATE users SET
				total_points = GREATEST(total_points, $2),
				updated_at = NOW()
			WHERE user_id = $1`,
			userID,
			newTotal,
		)
		if err != nil {
			err := fmt.Errorf("failed to update total points: %w", err)
			reporting.Report(ctx, err, map[string]string{
				"userID":   userID,
				"newTotal": strconv.Itoa(newTotal),
			})
			return err
		}
		return nil
	})
}

func (p *Postgres) PersistAchievementUnlock(ctx context.Context, userID string, achievementID domain.AchievementID) error {
	ctx, span := p.tracer.Start(ctx, "Postgres.PersistAchievementUnlock")
	defer span.End()

	if err := p.checkUserID(ctx, userID); err != nil {
		return err
	}

	return p.withUser(ctx, userID, func(txx *sqlx.Tx) error {
		_, err := txx.ExecContext(
			ctx,
			`INSERT INTO unlocked_achievements (user_id, achievement_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id, achievement_id) DO NOTHING`,
			userID,
			string(achievementID),
		)
		if err != nil {
			err := fmt.Errorf("failed to insert achievement: %w", err)
			reporting.Report(ctx, err, map[string]string{
				"userID":        userID,
				"achievementID": string(achievementID),
			})
			return err
		}
		return nil
	})
}

func (p *Postgres) PersistVerse(ctx context.Context, userID string, verse string) error {
	ctx, span := p.tracer.Start(ctx, "Postgres.PersistVerse")
	defer span.End()

	if err := p.checkUserID(ctx, userID); err != nil {
		return err
	}

	return p.withUser(ctx, userID, func(txx *sqlx.Tx) error {
		_, err := txx.ExecContext(
			ctx,
			`INSERT INTO collected_verses (user_id, verse_text)
			VALUES ($1, $2)
			ON CONFLICT (user_id, verse_text) DO NOTHING`,
			userID,
			verse,
		)
		if err != nil {
			err := fmt.Errorf("failed to insert verse: %w", err)
			reporting.Report(ctx, err, map[string]string{
				"userID": userID,
				"verse":  verse,
			})
			return err
		}
		return nil
	})
}

func (p *Postgres) PersistCampaignProgress(ctx context.Context, userID string, campaignID domain.CampaignID, level int) error {
	ctx, span := p.tracer.Start(ctx, "Postgres.PersistCampaignProgress")
	defer span.End()

	if err := p.checkUserID(ctx, userID); err != nil {
		return err
	}

	return p.withUser(ctx, userID, func(txx *sqlx.Tx) error {
		_, err := txx.ExecContext(
			ctx,
			`INSERT INTO user_progress (user_id, game_id, level_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, game_id)
			DO UPDATE SET
				level_id = GREATEST(user_progress.level_id, EXCLUDED.level_id),
				updated_at = NOW()`,
			userID,
			string(campaignID),
			level,
		)
		if err != nil {
			err := fmt.Errorf("failed to upsert campaign progress: %w", err)
			reporting.Report(ctx, err, map[string]string{
				"userID":   userID,
				"campaign": string(campaignID),
				"level":    strconv.Itoa(level),
			})
			return err
		}
		return nil
	})
}

func (p *Postgres) PersistDailyClaim(ctx context.Context, userID string, claimedAt time.Time) error {
	ctx, span := p.tracer.Start(ctx, "Postgres.PersistDailyClaim")
	defer span.End()

	if err := p.checkUserID(ctx, userID); err != nil {
		return err
	}

	return p.withUser(ctx, userID, func(txx *sqlx.Tx) error {
		_, err := txx.ExecContext(
			ctx,
			`UPDATE users SET
				last_daily_claim = GREATEST(last_daily_claim, $2),
				updated_at = NOW()
			WHERE user_id = $1`,
			userID,
			claimedAt,
		)
		if err != nil {
			err := fmt.Errorf("failed to update daily claim: %w", err)
			reporting.Report(ctx, err, map[string]string{
				"userID":    userID,
				"claimedAt": claimedAt.Format(time.RFC3339),
			})
			return err
		}
		return nil
	})
}

func (p *Postgres) CountUsersAbove(ctx context.Context, points int) (int, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.CountUsersAbove")
	defer span.End()

	var count int
	err := p.db.GetContext(ctx, &count, fmt.Sprintf(
		"SELECT COUNT(*) FROM %s.users WHERE total_points > $1",
		pq.QuoteIdentifier(p.schema),
	),
		points,
	)
	if err != nil {
		err := fmt.Errorf("failed to count users above: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"points": strconv.Itoa(points),
		})
		return 0, err
	}

	return count, nil
}
