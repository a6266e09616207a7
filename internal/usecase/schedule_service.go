package usecase

import (
	"fmt"
	"strconv"

	"github.com/andriatmoko/gaffer/internal/domain/club"
	"github.com/andriatmoko/gaffer/internal/domain/fixture"
	"github.com/andriatmoko/gaffer/internal/domain/season"
	"github.com/andriatmoko/gaffer/internal/platform/logging"
	"github.com/andriatmoko/gaffer/internal/platform/rng"
)

// ScheduleService builds double round-robin league schedules with the
// circle method.
type ScheduleService struct {
	logger *logging.Logger
}

func NewScheduleService(logger *logging.Logger) *ScheduleService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScheduleService{logger: logger}
}

// Generate produces the full season fixture list for one tier. The
// club count is a hard precondition: anything but the fixed tier size
// is a caller data bug and aborts loudly instead of truncating.
//
// One shuffle of the seed order per season decides the draw; the
// rotation itself is then fully mechanical. The second half replays
// every pairing with home and away swapped.
func (s *ScheduleService) Generate(tpl season.Template, tier int, clubIDs []string, src *rng.Source) ([]fixture.Fixture, error) {
	if len(clubIDs) != club.ClubsPerTier {
		return nil, fmt.Errorf("%w: tier=%d got=%d want=%d", ErrInvalidClubCount, tier, len(clubIDs), club.ClubsPerTier)
	}

	slots := tpl.LeagueMatchSlots()
	if len(slots) != season.LeagueRounds {
		return nil, fmt.Errorf("%w: template has %d league slots, want %d", ErrInvalidInput, len(slots), season.LeagueRounds)
	}

	order := src.ShuffleStrings(clubIDs)
	n := len(order)
	halfRounds := n - 1
	pairsPerRound := n / 2

	fixed := order[0]
	rotating := append([]string(nil), order[1:]...)

	type pairing struct {
		home string
		away string
	}
	firstHalf := make([][]pairing, halfRounds)

	for round := 0; round < halfRounds; round++ {
		line := make([]string, 0, n)
		line = append(line, fixed)
		line = append(line, rotating...)

		pairs := make([]pairing, 0, pairsPerRound)
		for i := 0; i < pairsPerRound; i++ {
			a, b := line[i], line[n-1-i]
			// Even rounds: left column hosts. Odd rounds flip, which
			// balances venues for the fixed team and every rotating
			// pair alike.
			if round%2 == 0 {
				pairs = append(pairs, pairing{home: a, away: b})
			} else {
				pairs = append(pairs, pairing{home: b, away: a})
			}
		}
		firstHalf[round] = pairs

		// Rotate all but the fixed position by one.
		last := rotating[len(rotating)-1]
		copy(rotating[1:], rotating[:len(rotating)-1])
		rotating[0] = last
	}

	fixtures := make([]fixture.Fixture, 0, season.LeagueRounds*pairsPerRound)
	appendRound := func(round int, pairs []pairing, mirrored bool) {
		slot := slots[round-1]
		for _, p := range pairs {
			home, away := p.home, p.away
			if mirrored {
				home, away = away, home
			}
			fixtures = append(fixtures, fixture.Fixture{
				ID:          leagueFixtureID(tpl.Year, tier, round, home, away),
				Competition: fixture.CompetitionLeague,
				Label:       slot.Label,
				Tier:        tier,
				Round:       round,
				HomeClubID:  home,
				AwayClubID:  away,
				Date:        slot.Start,
				Status:      fixture.StatusScheduled,
			})
		}
	}

	for round := 1; round <= halfRounds; round++ {
		appendRound(round, firstHalf[round-1], false)
	}
	for round := 1; round <= halfRounds; round++ {
		appendRound(halfRounds+round, firstHalf[round-1], true)
	}

	s.logger.Info("league schedule generated",
		"tier", tier,
		"season_year", tpl.Year,
		"rounds", season.LeagueRounds,
		"fixtures", len(fixtures),
	)

	return fixtures, nil
}

func leagueFixtureID(year, tier, round int, home, away string) string {
	return strconv.Itoa(year) + "-L" + strconv.Itoa(tier) +
		"-R" + fmt.Sprintf("%02d", round) + "-" + home + "-" + away
}
