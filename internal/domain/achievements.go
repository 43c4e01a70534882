package domain

import "fmt"

type AchievementID string

const (
	AchievementFirstStep     AchievementID = "first_step"
	AchievementPrayerWarrior AchievementID = "prayer_warrior"
	AchievementDevoted       AchievementID = "devoted"
	AchievementSocialite     AchievementID = "socialite"
	AchievementHighScore     AchievementID = "high_score"
	AchievementScholar       AchievementID = "scholar"
)

type AchievementDefinition struct {
	ID          AchievementID
	Title       string
	Description string
	XPReward    int
}

var Achievements = []AchievementDefinition{
	{ID: AchievementFirstStep, Title: "First Step", Description: "Complete your first level.", XPReward: 100},
	{ID: AchievementPrayerWarrior, Title: "Prayer Warrior", Description: "Collect 5 scripture verses.", XPReward: 300},
	{ID: AchievementDevoted, Title: "Devoted", Description: "Read a daily devotional.", XPReward: 50},
	{ID: AchievementSocialite, Title: "Fellowship", Description: "Participate in Journey TV chat.", XPReward: 50},
	{ID: AchievementHighScore, Title: "Legend", Description: "Reach 1000 total points.", XPReward: 500},
	{ID: AchievementScholar, Title: "Scholar", Description: "Open the Bible Reader.", XPReward: 50},
}

// Catalog is the static set of achievement definitions, in declaration order
type Catalog struct {
	definitions []AchievementDefinition
	byID        map[AchievementID]AchievementDefinition
}

func NewCatalog(definitions []AchievementDefinition) (Catalog, error) {
	byID := make(map[AchievementID]AchievementDefinition, len(definitions))
	copied := make([]AchievementDefinition, 0, len(definitions))
	for _, definition := range definitions {
		if definition.ID == "" {
			return Catalog{}, fmt.Errorf("%w: empty id", ErrInvalidCatalog)
		}
		if definition.XPReward <= 0 {
			return Catalog{}, fmt.Errorf("%w: non-positive reward for %s", ErrInvalidCatalog, definition.ID)
		}
		if _, ok := byID[definition.ID]; ok {
			return Catalog{}, fmt.Errorf("%w: duplicate id %s", ErrInvalidCatalog, definition.ID)
		}
		byID[definition.ID] = definition
		copied = append(copied, definition)
	}

	return Catalog{definitions: copied, byID: byID}, nil
}

func MustNewCatalog(definitions []AchievementDefinition) Catalog {
	catalog, err := NewCatalog(definitions)
	if err != nil {
		panic(err)
	}
	return catalog
}

func (c Catalog) Lookup(id AchievementID) (AchievementDefinition, bool) {
	definition, ok := c.byID[id]
	return definition, ok
}

func (c Catalog) All() []AchievementDefinition {
	copied := make([]AchievementDefinition, len(c.definitions))
	copy(copied, c.definitions)
	return copied
}
