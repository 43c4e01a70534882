package domain

import (
	"fmt"
)

// LevelThreshold is one player tier: reaching XP total points grants Level
type LevelThreshold struct {
	Level int
	XP    int
	Title string
}

// PlayerLevels is the fixed player level table
var PlayerLevels = []LevelThreshold{
	{Level: 1, XP: 0, Title: "Wanderer"},
	{Level: 2, XP: 500, Title: "Seeker"},
	{Level: 3, XP: 1500, Title: "Disciple"},
	{Level: 4, XP: 3000, Title: "Scribe"},
	{Level: 5, XP: 5000, Title: "Guardian"},
	{Level: 6, XP: 8000, Title: "Saint"},
	{Level: 7, XP: 12000, Title: "Prophet"},
	{Level: 8, XP: 20000, Title: "Patriarch"},
}

type LevelTable struct {
	thresholds []LevelThreshold
}

// NewLevelTable validates and wraps the given thresholds. The slice is copied.
func NewLevelTable(thresholds []LevelThreshold) (LevelTable, error) {
	if len(thresholds) == 0 {
		return LevelTable{}, fmt.Errorf("%w: no thresholds", ErrInvalidLevelTable)
	}

	for i, threshold := range thresholds {
		if threshold.Level != i+1 {
			return LevelTable{}, fmt.Errorf("%w: level %d at index %d", ErrInvalidLevelTable, threshold.Level, i)
		}
		if i > 0 && threshold.XP <= thresholds[i-1].XP {
			return LevelTable{}, fmt.Errorf("%w: xp not increasing at level %d", ErrInvalidLevelTable, threshold.Level)
		}
	}

	copied := make([]LevelThreshold, len(thresholds))
	copy(copied, thresholds)

	return LevelTable{thresholds: copied}, nil
}

func MustNewLevelTable(thresholds []LevelThreshold) LevelTable {
	table, err := NewLevelTable(thresholds)
	if err != nil {
		panic(err)
	}
	return table
}

// LevelForPoints returns the threshold with the largest xp <= points
//
// Falls back to the first threshold if none qualifies
func (t LevelTable) LevelForPoints(points int) LevelThreshold {
	if len(t.thresholds) == 0 {
		return LevelThreshold{}
	}

	result := t.thresholds[0]
	for _, threshold := range t.thresholds {
		if threshold.XP > points {
			break
		}
		result = threshold
	}
	return result
}

// NextLevel returns the threshold after the one reached with the given points
func (t LevelTable) NextLevel(points int) (LevelThreshold, bool) {
	current := t.LevelForPoints(points)
	if current.Level >= len(t.thresholds) {
		return LevelThreshold{}, false
	}
	return t.thresholds[current.Level], true
}

func (t LevelTable) Thresholds() []LevelThreshold {
	copied := make([]LevelThreshold, len(t.thresholds))
	copy(copied, t.thresholds)
	return copied
}
