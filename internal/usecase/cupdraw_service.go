package usecase

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/andriatmoko/gaffer/internal/domain/club"
	"github.com/andriatmoko/gaffer/internal/domain/season"
	"github.com/andriatmoko/gaffer/internal/platform/logging"
	"github.com/andriatmoko/gaffer/internal/platform/rng"
)

// DrawPair is one proposed cup tie.
type DrawPair struct {
	HomeClubID string
	AwayClubID string
}

// DrawProposal is a transient draw outcome. Nothing in the world
// changes until the proposal is confirmed through the calendar loop.
type DrawProposal struct {
	SlotID string
	Label  string
	Round  int
	Date   time.Time
	Pairs  []DrawPair
}

// CupDrawService produces seeded, reproducible knockout pairings.
type CupDrawService struct {
	logger *logging.Logger
}

func NewCupDrawService(logger *logging.Logger) *CupDrawService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CupDrawService{logger: logger}
}

// Draw pairs the participants for one round. The same label, year,
// session seed and participant set always produce the same pairing:
// the seed components are hashed into an integer seed for the platform
// LCG, which drives a Fisher-Yates shuffle. Consecutive shuffled
// entries form the ties.
//
// When the two clubs sit in different tiers the lower-ranked club
// hosts; equal tiers let the shuffle order decide.
func (s *CupDrawService) Draw(label string, year int, sessionSeed string, participants []string, clubs map[string]club.Club) ([]DrawPair, error) {
	if len(participants) == 0 || len(participants)%2 != 0 {
		return nil, fmt.Errorf("%w: label=%s got=%d", ErrOddParticipants, label, len(participants))
	}

	// Canonical input order, so the contract holds for any caller
	// ordering of the same set.
	sorted := append([]string(nil), participants...)
	sort.Strings(sorted)

	src := rng.NewFromString(label, strconv.Itoa(year), sessionSeed)
	shuffled := src.ShuffleStrings(sorted)

	pairs := make([]DrawPair, 0, len(shuffled)/2)
	for i := 0; i < len(shuffled); i += 2 {
		first, second := shuffled[i], shuffled[i+1]
		if tierRank(clubs, second) > tierRank(clubs, first) {
			first, second = second, first
		}
		pairs = append(pairs, DrawPair{HomeClubID: first, AwayClubID: second})
	}

	s.logger.Info("cup draw produced",
		"label", label,
		"year", year,
		"ties", len(pairs),
	)

	return pairs, nil
}

// tierRank orders tiers for home designation: larger means lower
// ranked. The amateur pool and unknown clubs rank below every tier,
// so the minnow always hosts.
func tierRank(clubs map[string]club.Club, clubID string) int {
	c, ok := clubs[clubID]
	if !ok || c.Amateur() {
		return club.TierCount + 1
	}
	return c.Tier
}

func cupFixtureID(slot season.Slot, p DrawPair) string {
	return slot.ID + "-" + p.HomeClubID + "-" + p.AwayClubID
}
