package domain_test

import (
	"fmt"
	"testing"

	"github.com/Amund211/pilgrim/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestLevelForPoints(t *testing.T) {
	t.Parallel()

	table := domain.MustNewLevelTable(domain.PlayerLevels)

	tests := []struct {
		points int
		level  int
		title  string
	}{
		{-100, 1, "Wanderer"},
		{0, 1, "Wanderer"},
		{499, 1, "Wanderer"},
		{500, 2, "Seeker"},
		{1499, 2, "Seeker"},
		{1500, 3, "Disciple"},
		{4999, 4, "Scribe"},
		{12000, 7, "Prophet"},
		{20000, 8, "Patriarch"},
		{1_000_000, 8, "Patriarch"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d points", tt.points), func(t *testing.T) {
			t.Parallel()

			threshold := table.LevelForPoints(tt.points)
			require.Equal(t, tt.level, threshold.Level)
			require.Equal(t, tt.title, threshold.Title)
		})
	}
}

func TestNextLevel(t *testing.T) {
	t.Parallel()

	table := domain.MustNewLevelTable(domain.PlayerLevels)

	next, ok := table.NextLevel(0)
	require.True(t, ok)
	require.Equal(t, 2, next.Level)
	require.Equal(t, 500, next.XP)

	next, ok = table.NextLevel(1600)
	require.True(t, ok)
	require.Equal(t, 4, next.Level)

	_, ok = table.NextLevel(25000)
	require.False(t, ok)
}

func TestNewLevelTable(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		table, err := domain.NewLevelTable([]domain.LevelThreshold{{Level: 1, XP: 0}, {Level: 2, XP: 10}})
		require.NoError(t, err)
		require.Len(t, table.Thresholds(), 2)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		cases := map[string][]domain.LevelThreshold{
			"empty":               {},
			"not starting at 1":   {{Level: 2, XP: 0}},
			"gap in levels":       {{Level: 1, XP: 0}, {Level: 3, XP: 10}},
			"xp not increasing":   {{Level: 1, XP: 0}, {Level: 2, XP: 0}},
			"xp decreasing":       {{Level: 1, XP: 10}, {Level: 2, XP: 5}},
			"levels out of order": {{Level: 2, XP: 0}, {Level: 1, XP: 10}},
		}

		for name, thresholds := range cases {
			t.Run(name, func(t *testing.T) {
				t.Parallel()

				_, err := domain.NewLevelTable(thresholds)
				require.ErrorIs(t, err, domain.ErrInvalidLevelTable)
			})
		}
	})

	t.Run("input is copied", func(t *testing.T) {
		t.Parallel()

		thresholds := []domain.LevelThreshold{{Level: 1, XP: 0}, {Level: 2, XP: 10}}
		table := domain.MustNewLevelTable(thresholds)
		thresholds[1].XP = 1000

		require.Equal(t, 2, table.LevelForPoints(10).Level)
	})
}

func TestNewCatalog(t *testing.T) {
	t.Parallel()

	t.Run("default catalog", func(t *testing.T) {
		t.Parallel()

		catalog, err := domain.NewCatalog(domain.Achievements)
		require.NoError(t, err)
		require.Len(t, catalog.All(), 6)

		definition, ok := catalog.Lookup(domain.AchievementHighScore)
		require.True(t, ok)
		require.Equal(t, 500, definition.XPReward)

		_, ok = catalog.Lookup("missing")
		require.False(t, ok)
	})

	t.Run("duplicate id", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewCatalog([]domain.AchievementDefinition{
			{ID: "a", XPReward: 1},
			{ID: "a", XPReward: 2},
		})
		require.ErrorIs(t, err, domain.ErrInvalidCatalog)
	})

	t.Run("non-positive reward", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewCatalog([]domain.AchievementDefinition{{ID: "a", XPReward: 0}})
		require.ErrorIs(t, err, domain.ErrInvalidCatalog)
	})

	t.Run("empty id", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewCatalog([]domain.AchievementDefinition{{XPReward: 10}})
		require.ErrorIs(t, err, domain.ErrInvalidCatalog)
	})
}

func TestDefaultCampaigns(t *testing.T) {
	t.Parallel()

	expectedCounts := map[domain.CampaignID]int{
		domain.CampaignPilgrim: 9,
		domain.CampaignDavid:   3,
		domain.CampaignPaul:    3,
	}

	require.Len(t, domain.DefaultCampaigns.IDs(), len(expectedCounts))

	for id, count := range expectedCounts {
		campaign, ok := domain.DefaultCampaigns.Lookup(id)
		require.True(t, ok)
		require.Equal(t, count, campaign.LevelCount())

		for number := 1; number <= count; number++ {
			level, ok := campaign.Level(number)
			require.True(t, ok)
			require.Equal(t, number, level.Number)
			require.NotEmpty(t, level.KeyVerse)
		}

		_, ok = campaign.Level(0)
		require.False(t, ok)
		_, ok = campaign.Level(count + 1)
		require.False(t, ok)
	}
}
