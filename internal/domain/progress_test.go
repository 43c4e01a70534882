package domain_test

import (
	"testing"
	"time"

	"github.com/Amund211/pilgrim/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	t.Parallel()

	t.Run("no change", func(t *testing.T) {
		t.Parallel()

		progress := progressWith(100, []string{"a"}, domain.AchievementScholar)
		delta := domain.Diff(progress, progress.Clone())
		require.True(t, delta.IsEmpty())
		require.Equal(t, "user-id", delta.UserID)
	})

	t.Run("level completion", func(t *testing.T) {
		t.Parallel()

		engine := domain.NewDefaultEngine()
		before := progressWith(0, nil)
		completion, err := engine.CompleteLevel(before, domain.CampaignPilgrim, "verse", 2)
		require.NoError(t, err)

		delta := domain.Diff(before, completion.Progress)
		require.False(t, delta.IsEmpty())
		require.Equal(t, domain.Delta{
			UserID:        "user-id",
			PointsChanged: true,
			TotalPoints:   200,
			Achievements:  []domain.AchievementID{domain.AchievementFirstStep},
			Verses:        []string{"verse"},
			Campaigns:     []domain.CampaignLevel{{Campaign: domain.CampaignPilgrim, Level: 2}},
		}, delta)
	})

	t.Run("campaigns are sorted", func(t *testing.T) {
		t.Parallel()

		before := progressWith(0, nil)
		after := before.Clone()
		after.CampaignProgress[domain.CampaignPilgrim] = 4
		after.CampaignProgress[domain.CampaignDavid] = 2
		after.CampaignProgress[domain.CampaignPaul] = 3

		delta := domain.Diff(before, after)
		require.Equal(t, []domain.CampaignLevel{
			{Campaign: domain.CampaignDavid, Level: 2},
			{Campaign: domain.CampaignPaul, Level: 3},
			{Campaign: domain.CampaignPilgrim, Level: 4},
		}, delta.Campaigns)
		require.False(t, delta.PointsChanged)
	})

	t.Run("daily claim", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
		engine := domain.NewDefaultEngine()
		before := progressWith(0, nil)
		after, _, err := engine.ClaimDailyReward(before, now)
		require.NoError(t, err)

		delta := domain.Diff(before, after)
		require.NotNil(t, delta.DailyClaim)
		require.Equal(t, now, *delta.DailyClaim)
		require.True(t, delta.PointsChanged)
		require.Equal(t, domain.DailyRewardPoints, delta.TotalPoints)
	})
}

func TestClone(t *testing.T) {
	t.Parallel()

	original := progressWith(10, []string{"a"}, domain.AchievementScholar)
	original.CampaignProgress[domain.CampaignDavid] = 2

	clone := original.Clone()
	clone.CollectedVerses[0] = "changed"
	clone.UnlockedAchievements[0] = domain.AchievementDevoted
	clone.CampaignProgress[domain.CampaignDavid] = 3

	require.Equal(t, []string{"a"}, original.CollectedVerses)
	require.Equal(t, []domain.AchievementID{domain.AchievementScholar}, original.UnlockedAchievements)
	require.Equal(t, 2, original.CampaignLevel(domain.CampaignDavid))
}
