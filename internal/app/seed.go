package app

import (
	"fmt"
	"strconv"
	"time"

	"github.com/andriatmoko/gaffer/internal/domain/club"
	"github.com/andriatmoko/gaffer/internal/domain/coach"
	"github.com/andriatmoko/gaffer/internal/domain/negotiation"
	"github.com/andriatmoko/gaffer/internal/domain/player"
	"github.com/andriatmoko/gaffer/internal/domain/world"
	"github.com/andriatmoko/gaffer/internal/platform/rng"
)

const (
	amateurPoolSize = 10
	squadSize       = 22
	freeCoachCount  = 8
)

var positionPlan = []player.Position{
	player.PositionGoalkeeper, player.PositionGoalkeeper,
	player.PositionDefender, player.PositionDefender, player.PositionDefender,
	player.PositionDefender, player.PositionDefender, player.PositionDefender, player.PositionDefender,
	player.PositionMidfielder, player.PositionMidfielder, player.PositionMidfielder, player.PositionMidfielder,
	player.PositionMidfielder, player.PositionMidfielder, player.PositionMidfielder, player.PositionMidfielder,
	player.PositionForward, player.PositionForward, player.PositionForward, player.PositionForward,
	player.PositionForward,
}

// SeedWorld builds the deterministic starting world for a session.
// Every attribute draw comes from one LCG stream seeded off the
// session seed, so identical seeds produce identical worlds.
func SeedWorld(startYear int, sessionSeed string) *world.World {
	src := rng.NewFromString("world", strconv.Itoa(startYear), sessionSeed)

	w := &world.World{
		Season:         1,
		SessionSeed:    sessionSeed,
		Clubs:          make(map[string]club.Club),
		Players:        make(map[string]player.Player),
		Coaches:        make(map[string]coach.Coach),
		Offers:         make(map[string]negotiation.Offer),
		OfferSteps:     make(map[string]int),
		ProcessedDraws: make(map[string]bool),
	}

	for tier := club.TierTop; tier <= club.TierCount; tier++ {
		for i := 1; i <= club.ClubsPerTier; i++ {
			seedClub(w, src, tier, i)
		}
	}
	for i := 1; i <= amateurPoolSize; i++ {
		seedClub(w, src, club.TierAmateur, i)
	}

	hiredAt := time.Date(startYear-1, time.July, 1, 0, 0, 0, 0, time.UTC)
	for _, clubID := range w.SortedClubIDs() {
		if w.Clubs[clubID].Amateur() {
			continue
		}
		coachID := "coach-" + clubID
		w.Coaches[coachID] = coach.Coach{
			ID:      coachID,
			Name:    "Coach " + clubID,
			ClubID:  clubID,
			Quality: src.IntBetween(3, 9),
			HiredAt: hiredAt,
		}
	}
	for i := 1; i <= freeCoachCount; i++ {
		coachID := fmt.Sprintf("coach-free-%02d", i)
		w.Coaches[coachID] = coach.Coach{
			ID:      coachID,
			Name:    fmt.Sprintf("Free Coach %d", i),
			Quality: src.IntBetween(2, 8),
		}
	}

	return w
}

func seedClub(w *world.World, src *rng.Source, tier, index int) {
	var clubID string
	var reputation int
	switch tier {
	case club.TierAmateur:
		clubID = fmt.Sprintf("am-%02d", index)
		reputation = 1
	default:
		clubID = fmt.Sprintf("t%d-%02d", tier, index)
		reputation = club.ClampReputation(src.IntBetween(9-tier*2, 11-tier*2))
	}

	w.Clubs[clubID] = club.Club{
		ID:         clubID,
		Name:       clubName(tier, index),
		Tier:       tier,
		Reputation: reputation,
		Budget:     0,
	}

	strengthFloor := 70 - tier*12
	if tier == club.TierAmateur {
		strengthFloor = 22
	}

	count := squadSize
	if tier == club.TierAmateur {
		count = 16
	}
	for i := 0; i < count; i++ {
		strength := src.IntBetween(strengthFloor, strengthFloor+24)
		playerID := fmt.Sprintf("%s-p%02d", clubID, i+1)
		w.Players[playerID] = player.Player{
			ID:            playerID,
			ClubID:        clubID,
			Name:          fmt.Sprintf("Player %s %d", clubID, i+1),
			Position:      positionPlan[i%len(positionPlan)],
			Age:           src.IntBetween(17, 33),
			Strength:      strength,
			Stamina:       src.IntBetween(35, 95),
			Salary:        int64(strength) * 1000,
			ContractYears: src.IntBetween(1, 4),
			Condition:     100,
		}
	}
}

func clubName(tier, index int) string {
	if tier == club.TierAmateur {
		return fmt.Sprintf("Amateurs %02d", index)
	}
	return fmt.Sprintf("Club %d.%02d", tier, index)
}
