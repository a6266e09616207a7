package season

import (
	"fmt"
	"time"

	"github.com/andriatmoko/gaffer/internal/domain/fixture"
)

// Slot types within a season template.
const (
	SlotMatch      = "MATCH"
	SlotDraw       = "DRAW"
	SlotTransition = "TRANSITION"
)

// Slot priorities; when two slots touch the same date the higher
// priority competition owns it.
const (
	PriorityLeague     = 1
	PriorityCup        = 2
	PrioritySuperCup   = 3
	PriorityTransition = 4
)

const (
	// LeagueRounds is the double round-robin length for an 18 club tier.
	LeagueRounds = 34

	// CupRoundCount covers a 64 entrant knockout down to the final.
	CupRoundCount = 6

	// CupEntrants is the fixed size of the first round draw.
	CupEntrants = 64

	winterBreakDays  = 28
	drawLeadDays     = 10
	winterBreakAfter = 17
)

var cupRoundLabels = [CupRoundCount]string{
	"Cup First Round",
	"Cup Second Round",
	"Cup Third Round",
	"Cup Quarter-final",
	"Cup Semi-final",
	"Cup Final",
}

// CupRoundLabel returns the canonical label for a 1-based cup round.
func CupRoundLabel(round int) string {
	return cupRoundLabels[round-1]
}

// CupRoundSize is the participant count entering a 1-based cup round.
func CupRoundSize(round int) int {
	return CupEntrants >> (round - 1)
}

// Slot is one dated window of competition activity. All literal dates
// in the engine live in the template generator below; no other
// component holds a calendar constant.
type Slot struct {
	ID          string
	Start       time.Time
	End         time.Time
	Competition string
	Label       string
	Priority    int
	Type        string
	Round       int
}

func (s Slot) Covers(date time.Time) bool {
	return !date.Before(s.Start) && !date.After(s.End)
}

// Template is the ordered slot list for one season.
type Template struct {
	Year  int
	Slots []Slot
}

// Date builds a normalized (midnight UTC) calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Normalize truncates a timestamp to its calendar date.
func Normalize(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return Date(y, m, d)
}

// DaysBetween returns the whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Normalize(b).Sub(Normalize(a)).Hours() / 24)
}

// Generate builds the template for the season starting in August of
// the given year: a super-cup Saturday, 34 league weekends with a
// winter break after round 17, six midweek cup rounds each preceded by
// a draw slot, and the transition boundary the following June.
func Generate(year int) Template {
	firstSaturday := Date(year, time.August, 1)
	for firstSaturday.Weekday() != time.Saturday {
		firstSaturday = firstSaturday.AddDate(0, 0, 1)
	}

	tpl := Template{Year: year}

	tpl.Slots = append(tpl.Slots, Slot{
		ID:          fmt.Sprintf("%d-supercup", year),
		Start:       firstSaturday,
		End:         firstSaturday,
		Competition: fixture.CompetitionSuperCup,
		Label:       "Super Cup",
		Priority:    PrioritySuperCup,
		Type:        SlotMatch,
		Round:       1,
	})

	matchday := func(round int) time.Time {
		days := 7 * round
		if round > winterBreakAfter {
			days += winterBreakDays
		}
		return firstSaturday.AddDate(0, 0, days)
	}

	for round := 1; round <= LeagueRounds; round++ {
		start := matchday(round)
		tpl.Slots = append(tpl.Slots, Slot{
			ID:          fmt.Sprintf("%d-league-md%02d", year, round),
			Start:       start,
			End:         start.AddDate(0, 0, 1),
			Competition: fixture.CompetitionLeague,
			Label:       fmt.Sprintf("Matchday %d", round),
			Priority:    PriorityLeague,
			Type:        SlotMatch,
			Round:       round,
		})
	}

	// Cup rounds land on the Wednesday after selected matchdays; the
	// final gets its own Saturday a week after the league closes.
	cupAfterMatchday := [CupRoundCount - 1]int{3, 7, 11, 19, 23}
	for round := 1; round <= CupRoundCount; round++ {
		var matchDate time.Time
		if round < CupRoundCount {
			matchDate = matchday(cupAfterMatchday[round-1]).AddDate(0, 0, 4)
		} else {
			matchDate = matchday(LeagueRounds).AddDate(0, 0, 7)
		}

		drawDate := matchDate.AddDate(0, 0, -drawLeadDays)
		tpl.Slots = append(tpl.Slots, Slot{
			ID:          fmt.Sprintf("%d-cup-r%d-draw", year, round),
			Start:       drawDate,
			End:         drawDate,
			Competition: fixture.CompetitionCup,
			Label:       cupRoundLabels[round-1],
			Priority:    PriorityCup,
			Type:        SlotDraw,
			Round:       round,
		})
		tpl.Slots = append(tpl.Slots, Slot{
			ID:          fmt.Sprintf("%d-cup-r%d", year, round),
			Start:       matchDate,
			End:         matchDate,
			Competition: fixture.CompetitionCup,
			Label:       cupRoundLabels[round-1],
			Priority:    PriorityCup,
			Type:        SlotMatch,
			Round:       round,
		})
	}

	transition := Date(year+1, time.June, 15)
	tpl.Slots = append(tpl.Slots, Slot{
		ID:          fmt.Sprintf("%d-transition", year),
		Start:       transition,
		End:         transition,
		Competition: fixture.CompetitionLeague,
		Label:       "Season Transition",
		Priority:    PriorityTransition,
		Type:        SlotTransition,
	})

	return tpl
}

// LeagueMatchSlots returns the 34 matchday slots in round order.
func (t Template) LeagueMatchSlots() []Slot {
	out := make([]Slot, 0, LeagueRounds)
	for _, s := range t.Slots {
		if s.Competition == fixture.CompetitionLeague && s.Type == SlotMatch {
			out = append(out, s)
		}
	}
	return out
}

// DrawSlotOn returns the cup draw slot covering the date, if any.
func (t Template) DrawSlotOn(date time.Time) (Slot, bool) {
	for _, s := range t.Slots {
		if s.Type == SlotDraw && s.Covers(date) {
			return s, true
		}
	}
	return Slot{}, false
}

// CupRoundSlot returns the MATCH slot for a 1-based cup round.
func (t Template) CupRoundSlot(round int) (Slot, bool) {
	for _, s := range t.Slots {
		if s.Competition == fixture.CompetitionCup && s.Type == SlotMatch && s.Round == round {
			return s, true
		}
	}
	return Slot{}, false
}

// SuperCupSlot returns the one-off super cup slot.
func (t Template) SuperCupSlot() (Slot, bool) {
	for _, s := range t.Slots {
		if s.Competition == fixture.CompetitionSuperCup {
			return s, true
		}
	}
	return Slot{}, false
}

// TransitionDate is the season boundary.
func (t Template) TransitionDate() time.Time {
	for _, s := range t.Slots {
		if s.Type == SlotTransition {
			return s.Start
		}
	}
	return time.Time{}
}

// SeasonStart is the first slot date of the season.
func (t Template) SeasonStart() time.Time {
	start := time.Time{}
	for _, s := range t.Slots {
		if start.IsZero() || s.Start.Before(start) {
			start = s.Start
		}
	}
	return start
}

// EventDatesAfter lists upcoming slot start dates, soonest first.
func (t Template) EventDatesAfter(date time.Time) []time.Time {
	var out []time.Time
	for _, s := range t.Slots {
		if s.Start.After(date) {
			out = append(out, s.Start)
		}
	}
	sortDates(out)
	return out
}

func sortDates(dates []time.Time) {
	for i := 1; i < len(dates); i++ {
		for j := i; j > 0 && dates[j].Before(dates[j-1]); j-- {
			dates[j], dates[j-1] = dates[j-1], dates[j]
		}
	}
}

// Validate enforces the overlap invariant: two slots may share a date
// only when their priorities differ, so the higher one always wins.
func (t Template) Validate() error {
	if len(t.Slots) == 0 {
		return fmt.Errorf("template for %d has no slots", t.Year)
	}
	for i, a := range t.Slots {
		for _, b := range t.Slots[i+1:] {
			if a.Start.After(b.End) || b.Start.After(a.End) {
				continue
			}
			if a.Priority == b.Priority && a.Competition == b.Competition && a.Type == b.Type {
				return fmt.Errorf("slots %s and %s overlap at equal priority", a.ID, b.ID)
			}
		}
	}
	return nil
}
