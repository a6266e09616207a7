package usecase

import (
	"fmt"
	"testing"
	"time"

	"github.com/andriatmoko/gaffer/internal/domain/club"
	"github.com/andriatmoko/gaffer/internal/domain/coach"
	"github.com/andriatmoko/gaffer/internal/domain/fixture"
	"github.com/andriatmoko/gaffer/internal/domain/negotiation"
	"github.com/andriatmoko/gaffer/internal/domain/player"
	"github.com/andriatmoko/gaffer/internal/domain/world"
)

// fullWorld builds the complete 64 club pyramid: three ranked tiers of
// eighteen plus a ten club amateur pool, with small squads and a coach
// per ranked club. Tests that need fixtures layer them on top.
func fullWorld(t *testing.T) *world.World {
	t.Helper()

	w := &world.World{
		Season:         1,
		SessionSeed:    "test-seed",
		Clubs:          make(map[string]club.Club),
		Players:        make(map[string]player.Player),
		Coaches:        make(map[string]coach.Coach),
		Offers:         make(map[string]negotiation.Offer),
		OfferSteps:     make(map[string]int),
		ProcessedDraws: make(map[string]bool),
	}

	hired := time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC)
	addClub := func(id string, tier, reputation, squad int) {
		w.Clubs[id] = club.Club{ID: id, Name: "Club " + id, Tier: tier, Reputation: reputation}
		for i := 1; i <= squad; i++ {
			pid := fmt.Sprintf("%s-p%02d", id, i)
			w.Players[pid] = player.Player{
				ID: pid, ClubID: id, Name: "Player " + pid,
				Position: player.PositionMidfielder,
				Age:      24 + i%8, Strength: 40 + i%40, Stamina: 60,
				Salary: 80_000, ContractYears: 2, Condition: 100,
			}
		}
	}

	for tier := club.TierTop; tier <= club.TierCount; tier++ {
		for i := 1; i <= club.ClubsPerTier; i++ {
			id := fmt.Sprintf("t%d-%02d", tier, i)
			addClub(id, tier, 5, 14)
			w.Coaches["coach-"+id] = coach.Coach{
				ID: "coach-" + id, Name: "Coach " + id, ClubID: id, Quality: 5, HiredAt: hired,
			}
		}
	}
	for i := 1; i <= 10; i++ {
		addClub(fmt.Sprintf("am-%02d", i), club.TierAmateur, 1, 12)
	}
	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("coach-free-%02d", i)
		w.Coaches[id] = coach.Coach{ID: id, Name: "Free " + id, Quality: 5 + i}
	}

	return w
}

// seedTierResults fabricates a finished round robin for one tier where
// lower numbered clubs beat higher numbered ones, so the final rank of
// t<tier>-<NN> is exactly NN.
func seedTierResults(w *world.World, tier int) {
	ids := w.ClubIDsInTier(tier)
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			hs, as := 1, 0
			w.Fixtures = append(w.Fixtures, fixture.Fixture{
				ID:          fmt.Sprintf("res-%d-%s-%s", tier, ids[i], ids[j]),
				Competition: fixture.CompetitionLeague,
				Tier:        tier,
				HomeClubID:  ids[i],
				AwayClubID:  ids[j],
				Status:      fixture.StatusFinished,
				HomeScore:   &hs,
				AwayScore:   &as,
			})
		}
	}
}
