package app

import (
	"testing"
	"time"

	"github.com/Amund211/pilgrim/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestBuildAddPoints(t *testing.T) {
	t.Parallel()

	engine := domain.NewDefaultEngine()

	t.Run("level up is synced", func(t *testing.T) {
		t.Parallel()
		store := newMockSessionStore(t, domain.NewPlayerProgress("user-1"))
		syncer := &mockSyncer{}

		update, err := BuildAddPoints(engine, store, syncer)(t.Context(), "user-1", 600)
		require.NoError(t, err)
		require.Equal(t, 600, update.Progress.TotalPoints)
		require.Equal(t, []domain.Event{
			{Kind: domain.EventLevelUp, Level: 2, Title: "Seeker"},
		}, update.Events)

		require.Len(t, syncer.deltas, 1)
		require.True(t, syncer.deltas[0].PointsChanged)
		require.Equal(t, 600, syncer.deltas[0].TotalPoints)
	})

	t.Run("crossing the high score threshold", func(t *testing.T) {
		t.Parallel()
		progress := domain.NewPlayerProgress("user-1")
		progress.TotalPoints = 950
		store := newMockSessionStore(t, progress)
		syncer := &mockSyncer{}

		update, err := BuildAddPoints(engine, store, syncer)(t.Context(), "user-1", 100)
		require.NoError(t, err)
		require.Equal(t, 1550, update.Progress.TotalPoints)
		require.Len(t, update.Events, 2)
		require.Equal(t, domain.EventAchievementUnlocked, update.Events[0].Kind)
		require.Equal(t, domain.AchievementHighScore, update.Events[0].AchievementID)
		require.Equal(t, domain.EventLevelUp, update.Events[1].Kind)
		require.Equal(t, 3, update.Events[1].Level)

		require.Len(t, syncer.deltas, 1)
		require.Equal(t, []domain.AchievementID{domain.AchievementHighScore}, syncer.deltas[0].Achievements)
		require.Equal(t, 1550, syncer.deltas[0].TotalPoints)
	})

	t.Run("invalid amount is not synced", func(t *testing.T) {
		t.Parallel()
		store := newMockSessionStore(t, domain.NewPlayerProgress("user-1"))
		syncer := &mockSyncer{}

		_, err := BuildAddPoints(engine, store, syncer)(t.Context(), "user-1", -5)
		require.ErrorIs(t, err, domain.ErrInvalidAmount)
		require.Empty(t, syncer.deltas)

		progress, err := store.Get("user-1")
		require.NoError(t, err)
		require.Equal(t, 0, progress.TotalPoints)
	})

	t.Run("no session", func(t *testing.T) {
		t.Parallel()
		store := newMockSessionStore(t, domain.NewPlayerProgress("user-1"))
		store.progress = nil
		syncer := &mockSyncer{}

		_, err := BuildAddPoints(engine, store, syncer)(t.Context(), "user-1", 10)
		require.ErrorIs(t, err, domain.ErrNoSession)
		require.Empty(t, syncer.deltas)
	})
}

func TestBuildUnlockAchievement(t *testing.T) {
	t.Parallel()

	engine := domain.NewDefaultEngine()
	store := newMockSessionStore(t, domain.NewPlayerProgress("user-1"))
	syncer := &mockSyncer{}
	unlock := BuildUnlockAchievement(engine, store, syncer)

	update, err := unlock(t.Context(), "user-1", domain.AchievementDevoted)
	require.NoError(t, err)
	require.Equal(t, 50, update.Progress.TotalPoints)
	require.Equal(t, []domain.Event{
		{Kind: domain.EventAchievementUnlocked, AchievementID: domain.AchievementDevoted, Title: "Devoted", XPReward: 50},
	}, update.Events)

	// Second unlock pays nothing and syncs nothing
	update, err = unlock(t.Context(), "user-1", domain.AchievementDevoted)
	require.NoError(t, err)
	require.Equal(t, 50, update.Progress.TotalPoints)
	require.Empty(t, update.Events)
	require.Len(t, syncer.deltas, 2)
	require.True(t, syncer.deltas[1].IsEmpty())

	_, err = unlock(t.Context(), "user-1", "made_up")
	require.ErrorIs(t, err, domain.ErrUnknownAchievement)
}

func TestBuildRecordVerse(t *testing.T) {
	t.Parallel()

	engine := domain.NewDefaultEngine()
	store := newMockSessionStore(t, domain.NewPlayerProgress("user-1"))
	syncer := &mockSyncer{}
	recordVerse := BuildRecordVerse(engine, store, syncer)

	update, wasNew, err := recordVerse(t.Context(), "user-1", "Psalm 23:1")
	require.NoError(t, err)
	require.True(t, wasNew)
	require.Equal(t, []string{"Psalm 23:1"}, update.Progress.CollectedVerses)
	require.Equal(t, []string{"Psalm 23:1"}, syncer.deltas[0].Verses)

	update, wasNew, err = recordVerse(t.Context(), "user-1", "Psalm 23:1")
	require.NoError(t, err)
	require.False(t, wasNew)
	require.Equal(t, []string{"Psalm 23:1"}, update.Progress.CollectedVerses)

	_, _, err = recordVerse(t.Context(), "user-1", "")
	require.ErrorIs(t, err, domain.ErrInvalidVerse)
}

func TestBuildCompleteLevel(t *testing.T) {
	t.Parallel()

	engine := domain.NewDefaultEngine()

	t.Run("first completion", func(t *testing.T) {
		t.Parallel()
		store := newMockSessionStore(t, domain.NewPlayerProgress("user-1"))
		syncer := &mockSyncer{}

		update, victory, err := BuildCompleteLevel(engine, store, syncer)(t.Context(), "user-1", domain.CampaignPilgrim, "John 3:16", 2)
		require.NoError(t, err)
		require.False(t, victory)
		// Completion reward and first step
		require.Equal(t, 200, update.Progress.TotalPoints)
		require.Equal(t, 2, update.Progress.CampaignLevel(domain.CampaignPilgrim))
		require.Equal(t, []domain.Event{
			{Kind: domain.EventAchievementUnlocked, AchievementID: domain.AchievementFirstStep, Title: "First Step", XPReward: 100},
		}, update.Events)

		require.Len(t, syncer.deltas, 1)
		delta := syncer.deltas[0]
		require.Equal(t, []string{"John 3:16"}, delta.Verses)
		require.Equal(t, []domain.CampaignLevel{{Campaign: domain.CampaignPilgrim, Level: 2}}, delta.Campaigns)
		require.Equal(t, []domain.AchievementID{domain.AchievementFirstStep}, delta.Achievements)
		require.Equal(t, 200, delta.TotalPoints)
	})

	t.Run("finishing the campaign", func(t *testing.T) {
		t.Parallel()
		progress := domain.NewPlayerProgress("user-1")
		progress.CampaignProgress[domain.CampaignDavid] = 3
		store := newMockSessionStore(t, progress)

		_, victory, err := BuildCompleteLevel(engine, store, &mockSyncer{})(t.Context(), "user-1", domain.CampaignDavid, "1 Samuel 24:10", 4)
		require.NoError(t, err)
		require.True(t, victory)
	})

	t.Run("invalid level", func(t *testing.T) {
		t.Parallel()
		store := newMockSessionStore(t, domain.NewPlayerProgress("user-1"))
		syncer := &mockSyncer{}

		_, _, err := BuildCompleteLevel(engine, store, syncer)(t.Context(), "user-1", domain.CampaignPaul, "Acts 9:6", 9)
		require.ErrorIs(t, err, domain.ErrInvalidLevel)
		require.Empty(t, syncer.deltas)
	})
}

func TestBuildClaimDailyReward(t *testing.T) {
	t.Parallel()

	engine := domain.NewDefaultEngine()
	now := time.Date(2026, time.April, 2, 9, 0, 0, 0, time.UTC)
	nowFunc := func() time.Time { return now }

	store := newMockSessionStore(t, domain.NewPlayerProgress("user-1"))
	syncer := &mockSyncer{}
	claim := BuildClaimDailyReward(engine, store, syncer, nowFunc)

	update, err := claim(t.Context(), "user-1")
	require.NoError(t, err)
	require.Equal(t, 10, update.Progress.TotalPoints)
	require.Equal(t, now, update.Progress.LastDailyClaim)
	require.NotNil(t, syncer.deltas[0].DailyClaim)
	require.Equal(t, now, *syncer.deltas[0].DailyClaim)

	now = now.Add(23 * time.Hour)
	_, err = claim(t.Context(), "user-1")
	require.ErrorIs(t, err, domain.ErrDailyRewardNotReady)
	require.Len(t, syncer.deltas, 1)

	now = now.Add(2 * time.Hour)
	update, err = claim(t.Context(), "user-1")
	require.NoError(t, err)
	require.Equal(t, 20, update.Progress.TotalPoints)
}

func TestBuildRecordSocialInteraction(t *testing.T) {
	t.Parallel()

	engine := domain.NewDefaultEngine()

	t.Run("comment unlocks fellowship", func(t *testing.T) {
		t.Parallel()
		store := newMockSessionStore(t, domain.NewPlayerProgress("user-1"))
		syncer := &mockSyncer{}

		update, err := BuildRecordSocialInteraction(engine, store, syncer)(t.Context(), "user-1", domain.SocialActionComment)
		require.NoError(t, err)
		require.Equal(t, 60, update.Progress.TotalPoints)
		require.True(t, update.Progress.HasAchievement(domain.AchievementSocialite))
		require.Equal(t, []domain.AchievementID{domain.AchievementSocialite}, syncer.deltas[0].Achievements)
	})

	t.Run("unknown action", func(t *testing.T) {
		t.Parallel()
		store := newMockSessionStore(t, domain.NewPlayerProgress("user-1"))

		_, err := BuildRecordSocialInteraction(engine, store, &mockSyncer{})(t.Context(), "user-1", "wave")
		require.ErrorIs(t, err, domain.ErrUnknownSocialAction)
	})
}

func TestBuildRecordVisit(t *testing.T) {
	t.Parallel()

	engine := domain.NewDefaultEngine()
	store := newMockSessionStore(t, domain.NewPlayerProgress("user-1"))
	syncer := &mockSyncer{}
	recordVisit := BuildRecordVisit(engine, store, syncer)

	update, err := recordVisit(t.Context(), "user-1", domain.SurfaceBibleReader)
	require.NoError(t, err)
	require.Equal(t, 50, update.Progress.TotalPoints)
	require.True(t, update.Progress.HasAchievement(domain.AchievementScholar))

	update, err = recordVisit(t.Context(), "user-1", domain.SurfaceBibleReader)
	require.NoError(t, err)
	require.Equal(t, 50, update.Progress.TotalPoints)

	_, err = recordVisit(t.Context(), "user-1", "wiki")
	require.ErrorIs(t, err, domain.ErrUnknownSurface)
}
