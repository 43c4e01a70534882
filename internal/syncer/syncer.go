package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/Amund211/pilgrim/internal/domain"
	"github.com/Amund211/pilgrim/internal/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type syncTarget interface {
	PersistPoints(ctx context.Context, userID string, newTotal int) error
	PersistAchievementUnlock(ctx context.Context, userID string, achievementID domain.AchievementID) error
	PersistVerse(ctx context.Context, userID string, verse string) error
	PersistCampaignProgress(ctx context.Context, userID string, campaignID domain.CampaignID, level int) error
	PersistDailyClaim(ctx context.Context, userID string, claimedAt time.Time) error
}

// Syncer persists session deltas in the background
//
// Persistence is best effort. Failures are logged and counted but never returned
// to the caller, and the in-memory session is not rolled back.
type Syncer struct {
	target  syncTarget
	timeout time.Duration

	mutex sync.Mutex
	// Deltas waiting for each user with a running drainer
	queues map[string][]job

	inFlight sync.WaitGroup
}

const DEFAULT_TIMEOUT = 10 * time.Second

func New(target syncTarget, timeout time.Duration) *Syncer {
	return &Syncer{
		target:  target,
		timeout: timeout,
		queues:  map[string][]job{},
	}
}

type job struct {
	ctx   context.Context
	steps []step
}

type step struct {
	kind    string
	run     func(ctx context.Context) error
	details map[string]string
}

func stepsFor(target syncTarget, delta domain.Delta) []step {
	userID := delta.UserID
	steps := []step{}

	for _, id := range delta.Achievements {
		steps = append(steps, step{
			kind: "achievement",
			run: func(ctx context.Context) error {
				return target.PersistAchievementUnlock(ctx, userID, id)
			},
			details: map[string]string{"achievementID": string(id)},
		})
	}

	for _, verse := range delta.Verses {
		steps = append(steps, step{
			kind: "verse",
			run: func(ctx context.Context) error {
				return target.PersistVerse(ctx, userID, verse)
			},
			details: map[string]string{"verse": verse},
		})
	}

	for _, campaign := range delta.Campaigns {
		steps = append(steps, step{
			kind: "campaign",
			run: func(ctx context.Context) error {
				return target.PersistCampaignProgress(ctx, userID, campaign.Campaign, campaign.Level)
			},
			details: map[string]string{"campaign": string(campaign.Campaign), "level": strconv.Itoa(campaign.Level)},
		})
	}

	if delta.PointsChanged {
		steps = append(steps, step{
			kind: "points",
			run: func(ctx context.Context) error {
				return target.PersistPoints(ctx, userID, delta.TotalPoints)
			},
			details: map[string]string{"totalPoints": strconv.Itoa(delta.TotalPoints)},
		})
	}

	if delta.DailyClaim != nil {
		claimedAt := *delta.DailyClaim
		steps = append(steps, step{
			kind: "daily_claim",
			run: func(ctx context.Context) error {
				return target.PersistDailyClaim(ctx, userID, claimedAt)
			},
			details: map[string]string{"claimedAt": claimedAt.Format(time.RFC3339)},
		})
	}

	return steps
}

// Sync starts persisting the delta and returns immediately
//
// Deltas of one user are persisted one at a time in the order they were synced,
// so collected verses are stored in collection order. Different users sync
// concurrently.
func (s *Syncer) Sync(ctx context.Context, delta domain.Delta) {
	if delta.IsEmpty() {
		return
	}

	// Ignore cancellations from the request context, the request will be long gone
	next := job{
		ctx:   context.WithoutCancel(ctx),
		steps: stepsFor(s.target, delta),
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	queue, draining := s.queues[delta.UserID]
	s.queues[delta.UserID] = append(queue, next)
	if draining {
		return
	}

	s.inFlight.Go(func() {
		s.drain(delta.UserID)
	})
}

// drain runs the queued deltas of the user until the queue is empty
func (s *Syncer) drain(userID string) {
	for {
		s.mutex.Lock()
		queue := s.queues[userID]
		if len(queue) == 0 {
			delete(s.queues, userID)
			s.mutex.Unlock()
			return
		}
		current := queue[0]
		s.queues[userID] = queue[1:]
		s.mutex.Unlock()

		for _, step := range current.steps {
			s.runStep(current.ctx, step)
		}
	}
}

func (s *Syncer) runStep(ctx context.Context, step step) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := step.run(ctx)

	outcome := "success"
	if err != nil {
		outcome = "failure"

		// NOTE: syncTarget implementations handle their own error reporting
		args := []any{
			slog.String("kind", step.kind),
			slog.String("error", err.Error()),
		}
		for key, value := range step.details {
			args = append(args, slog.String(key, value))
		}
		logging.FromContext(ctx).ErrorContext(ctx, "Failed to sync progress", args...)
	}

	attributesOption := metric.WithAttributes(
		attribute.String("kind", step.kind),
		attribute.String("outcome", outcome),
	)
	metrics.operationCount.Add(ctx, 1, attributesOption)
	metrics.operationDuration.Record(ctx, time.Since(start).Seconds(), attributesOption)
}

// Flush waits for all started syncs to finish, or for ctx to be done
func (s *Syncer) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inFlight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("flush interrupted before all syncs finished: %w", ctx.Err())
	}
}
