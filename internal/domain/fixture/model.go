package fixture

import "time"

const (
	StatusScheduled = "SCHEDULED"
	StatusFinished  = "FINISHED"
)

// Competition tags carried by fixtures and season template slots.
const (
	CompetitionLeague   = "LEAGUE"
	CompetitionCup      = "CUP"
	CompetitionSuperCup = "SUPERCUP"
)

// Fixture represents one scheduled match. Identity fields are set once
// at creation; status and scores are written exactly once, when the
// match is resolved.
type Fixture struct {
	ID          string
	Competition string
	Label       string
	Tier        int
	Round       int
	HomeClubID  string
	AwayClubID  string
	Date        time.Time
	Status      string
	HomeScore   *int
	AwayScore   *int
	HomePens    *int
	AwayPens    *int
}

func (f Fixture) IsDue(date time.Time) bool {
	return f.Status == StatusScheduled && !f.Date.After(date)
}

func (f Fixture) Finished() bool {
	return f.Status == StatusFinished
}

// Knockout reports whether a level result must still produce a winner.
func (f Fixture) Knockout() bool {
	return f.Competition == CompetitionCup || f.Competition == CompetitionSuperCup
}

// WinnerClubID returns the winner of a finished fixture, falling back
// to the penalty scores for knockout ties. Empty string means a draw.
func (f Fixture) WinnerClubID() string {
	if !f.Finished() || f.HomeScore == nil || f.AwayScore == nil {
		return ""
	}
	switch {
	case *f.HomeScore > *f.AwayScore:
		return f.HomeClubID
	case *f.AwayScore > *f.HomeScore:
		return f.AwayClubID
	}
	if f.HomePens != nil && f.AwayPens != nil {
		if *f.HomePens > *f.AwayPens {
			return f.HomeClubID
		}
		return f.AwayClubID
	}
	return ""
}

// Involves reports whether the club plays in this fixture.
func (f Fixture) Involves(clubID string) bool {
	return f.HomeClubID == clubID || f.AwayClubID == clubID
}
