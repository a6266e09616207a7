package club

import (
	"fmt"
	"time"
)

// Tier numbering: 1 is the top division. TierAmateur marks clubs in
// the unranked pool below the lowest full league.
const (
	TierTop     = 1
	TierCount   = 3
	TierAmateur = 0

	// ClubsPerTier is fixed for all ranked tiers; the schedule
	// generator refuses any other count.
	ClubsPerTier = 18

	ReputationMin = 1
	ReputationMax = 10
)

// SeasonStats accumulate over one season and are zeroed at the
// transition boundary.
type SeasonStats struct {
	Played       int
	Won          int
	Drawn        int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
}

// Club is one team in the game world.
type Club struct {
	ID         string
	Name       string
	Tier       int
	Reputation int
	Budget     int64
	InCup      bool
	Stats      SeasonStats

	// BoardLockedUntil blocks board interactions (resignations,
	// demands) until the date passes. Cleared by the calendar loop.
	BoardLockedUntil *time.Time
}

func (c Club) Amateur() bool {
	return c.Tier == TierAmateur
}

func (c Club) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("club id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("club name is required")
	}
	if c.Tier < TierAmateur || c.Tier > TierCount {
		return fmt.Errorf("invalid club tier: %d", c.Tier)
	}
	if c.Reputation < ReputationMin || c.Reputation > ReputationMax {
		return fmt.Errorf("invalid club reputation: %d", c.Reputation)
	}
	return nil
}

// ClampReputation keeps reputation adjustments inside the 1..10 band.
func ClampReputation(v int) int {
	if v < ReputationMin {
		return ReputationMin
	}
	if v > ReputationMax {
		return ReputationMax
	}
	return v
}
