package coach

import "time"

// Coach manages one club, or none when between jobs.
type Coach struct {
	ID      string
	Name    string
	ClubID  string // empty while unemployed
	Quality int    // 1..10, drives hiring preference
	HiredAt time.Time

	// BlacklistedFrom maps a club to the date the ban lapses. A fired
	// coach cannot be rehired by the same club inside the window.
	BlacklistedFrom map[string]time.Time
}

func (c Coach) Employed() bool {
	return c.ClubID != ""
}

// TenureMonths at the given date, for the firing protection window.
func (c Coach) TenureMonths(date time.Time) int {
	if !c.Employed() || date.Before(c.HiredAt) {
		return 0
	}
	months := 0
	cursor := c.HiredAt
	for {
		cursor = cursor.AddDate(0, 1, 0)
		if cursor.After(date) {
			break
		}
		months++
	}
	return months
}

func (c Coach) BlacklistedAt(clubID string, date time.Time) bool {
	until, ok := c.BlacklistedFrom[clubID]
	return ok && date.Before(until)
}

func (c *Coach) Blacklist(clubID string, until time.Time) {
	if c.BlacklistedFrom == nil {
		c.BlacklistedFrom = make(map[string]time.Time)
	}
	c.BlacklistedFrom[clubID] = until
}
