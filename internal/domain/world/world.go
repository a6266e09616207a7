package world

import (
	"sort"
	"time"

	"github.com/andriatmoko/gaffer/internal/domain/club"
	"github.com/andriatmoko/gaffer/internal/domain/coach"
	"github.com/andriatmoko/gaffer/internal/domain/fixture"
	"github.com/andriatmoko/gaffer/internal/domain/negotiation"
	"github.com/andriatmoko/gaffer/internal/domain/player"
	"github.com/andriatmoko/gaffer/internal/domain/season"
)

// Champions records last season's title holders for super-cup seeding.
type Champions struct {
	LeagueChampionID string
	CupWinnerID      string
}

// World is one consistent snapshot of the whole game state. Subsystems
// receive a clone, mutate the clone, and hand it back; only the
// calendar loop commits a snapshot into the Store.
type World struct {
	Date        time.Time
	Season      int
	SessionSeed string
	Template    season.Template

	Clubs    map[string]club.Club
	Players  map[string]player.Player
	Coaches  map[string]coach.Coach
	Fixtures []fixture.Fixture
	Offers   map[string]negotiation.Offer // keyed by player ID

	// OfferSteps remembers the negotiation step per player|club pair;
	// offers are destroyed on resolution but the round count survives
	// until a terminal outcome or the season transition clears it.
	OfferSteps map[string]int

	// ProcessedDraws marks draw slots whose pairings were confirmed,
	// so a round is never drawn twice.
	ProcessedDraws map[string]bool

	// LastRecovery is the checkpoint the daily recovery transform
	// catches up from.
	LastRecovery time.Time

	Champions Champions
}

// Clone returns a deep copy. Pointer-valued fields inside entities are
// duplicated too, so no mutation of the clone can reach the original.
func (w *World) Clone() *World {
	out := &World{
		Date:           w.Date,
		Season:         w.Season,
		SessionSeed:    w.SessionSeed,
		Template:       w.Template,
		Clubs:          make(map[string]club.Club, len(w.Clubs)),
		Players:        make(map[string]player.Player, len(w.Players)),
		Coaches:        make(map[string]coach.Coach, len(w.Coaches)),
		Fixtures:       make([]fixture.Fixture, len(w.Fixtures)),
		Offers:         make(map[string]negotiation.Offer, len(w.Offers)),
		OfferSteps:     make(map[string]int, len(w.OfferSteps)),
		ProcessedDraws: make(map[string]bool, len(w.ProcessedDraws)),
		LastRecovery:   w.LastRecovery,
		Champions:      w.Champions,
	}

	out.Template.Slots = append([]season.Slot(nil), w.Template.Slots...)

	for id, c := range w.Clubs {
		c.BoardLockedUntil = cloneTime(c.BoardLockedUntil)
		out.Clubs[id] = c
	}
	for id, p := range w.Players {
		p.NegotiationLockedUntil = cloneTime(p.NegotiationLockedUntil)
		p.ContractLockedUntil = cloneTime(p.ContractLockedUntil)
		p.FreeAgentLockedUntil = cloneTime(p.FreeAgentLockedUntil)
		if p.Injury != nil {
			injury := *p.Injury
			p.Injury = &injury
		}
		if p.BlockedClubIDs != nil {
			blocked := make(map[string]struct{}, len(p.BlockedClubIDs))
			for k := range p.BlockedClubIDs {
				blocked[k] = struct{}{}
			}
			p.BlockedClubIDs = blocked
		}
		out.Players[id] = p
	}
	for id, c := range w.Coaches {
		if c.BlacklistedFrom != nil {
			bl := make(map[string]time.Time, len(c.BlacklistedFrom))
			for k, v := range c.BlacklistedFrom {
				bl[k] = v
			}
			c.BlacklistedFrom = bl
		}
		out.Coaches[id] = c
	}
	for i, f := range w.Fixtures {
		f.HomeScore = cloneInt(f.HomeScore)
		f.AwayScore = cloneInt(f.AwayScore)
		f.HomePens = cloneInt(f.HomePens)
		f.AwayPens = cloneInt(f.AwayPens)
		out.Fixtures[i] = f
	}
	for id, o := range w.Offers {
		out.Offers[id] = o
	}
	for key, step := range w.OfferSteps {
		out.OfferSteps[key] = step
	}
	for id, done := range w.ProcessedDraws {
		out.ProcessedDraws[id] = done
	}

	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

// ClubByID is a soft-fail lookup; a missing club must not abort the
// rest of a simulated day.
func (w *World) ClubByID(id string) (club.Club, bool) {
	c, ok := w.Clubs[id]
	return c, ok
}

func (w *World) PlayerByID(id string) (player.Player, bool) {
	p, ok := w.Players[id]
	return p, ok
}

// CoachOfClub returns the employed coach of a club, if any.
func (w *World) CoachOfClub(clubID string) (coach.Coach, bool) {
	for _, id := range w.SortedCoachIDs() {
		if c := w.Coaches[id]; c.ClubID == clubID {
			return c, true
		}
	}
	return coach.Coach{}, false
}

// ClubIDsInTier returns the tier members sorted by ID. Sorted order
// matters: map iteration order would leak into seeded shuffles.
func (w *World) ClubIDsInTier(tier int) []string {
	var out []string
	for id, c := range w.Clubs {
		if c.Tier == tier {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func (w *World) SortedClubIDs() []string {
	out := make([]string, 0, len(w.Clubs))
	for id := range w.Clubs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (w *World) SortedPlayerIDs() []string {
	out := make([]string, 0, len(w.Players))
	for id := range w.Players {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (w *World) SortedCoachIDs() []string {
	out := make([]string, 0, len(w.Coaches))
	for id := range w.Coaches {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// PlayerIDsOfClub returns a club's squad sorted by player ID.
func (w *World) PlayerIDsOfClub(clubID string) []string {
	var out []string
	for id, p := range w.Players {
		if p.ClubID == clubID {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// FixturesDue returns all scheduled fixtures due on or before the date.
func (w *World) FixturesDue(date time.Time) []fixture.Fixture {
	var out []fixture.Fixture
	for _, f := range w.Fixtures {
		if f.IsDue(date) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CupWinners returns the surviving participants after a cup round:
// the winners of that round's finished fixtures, sorted by club ID.
func (w *World) CupWinners(round int) []string {
	var out []string
	for _, f := range w.Fixtures {
		if f.Competition != fixture.CompetitionCup || f.Round != round || !f.Finished() {
			continue
		}
		if winner := f.WinnerClubID(); winner != "" {
			out = append(out, winner)
		}
	}
	sort.Strings(out)
	return out
}

// ReplaceFixture writes back a resolved fixture by ID.
func (w *World) ReplaceFixture(f fixture.Fixture) {
	for i := range w.Fixtures {
		if w.Fixtures[i].ID == f.ID {
			w.Fixtures[i] = f
			return
		}
	}
}
