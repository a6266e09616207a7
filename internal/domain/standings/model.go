package standings

import (
	"sort"

	"github.com/andriatmoko/gaffer/internal/domain/fixture"
)

// Row is one club's line in a league table.
type Row struct {
	Rank         int
	ClubID       string
	Played       int
	Won          int
	Drawn        int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
	Points       int
}

func (r Row) GoalDifference() int {
	return r.GoalsFor - r.GoalsAgainst
}

// Table is a ranked league standing, best first.
type Table struct {
	Tier int
	Rows []Row
}

// Compute builds the table for one tier from finished league fixtures.
// Ordering: points, goal difference, goals scored, then club ID so the
// result is total and reproducible.
func Compute(tier int, clubIDs []string, fixtures []fixture.Fixture) Table {
	rows := make(map[string]*Row, len(clubIDs))
	for _, id := range clubIDs {
		rows[id] = &Row{ClubID: id}
	}

	for _, f := range fixtures {
		if f.Competition != fixture.CompetitionLeague || f.Tier != tier || !f.Finished() {
			continue
		}
		home, hok := rows[f.HomeClubID]
		away, aok := rows[f.AwayClubID]
		if !hok || !aok || f.HomeScore == nil || f.AwayScore == nil {
			continue
		}

		hs, as := *f.HomeScore, *f.AwayScore
		home.Played++
		away.Played++
		home.GoalsFor += hs
		home.GoalsAgainst += as
		away.GoalsFor += as
		away.GoalsAgainst += hs

		switch {
		case hs > as:
			home.Won++
			home.Points += 3
			away.Lost++
		case as > hs:
			away.Won++
			away.Points += 3
			home.Lost++
		default:
			home.Drawn++
			away.Drawn++
			home.Points++
			away.Points++
		}
	}

	table := Table{Tier: tier, Rows: make([]Row, 0, len(rows))}
	for _, row := range rows {
		table.Rows = append(table.Rows, *row)
	}

	sort.Slice(table.Rows, func(i, j int) bool {
		a, b := table.Rows[i], table.Rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference() != b.GoalDifference() {
			return a.GoalDifference() > b.GoalDifference()
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.ClubID < b.ClubID
	})
	for i := range table.Rows {
		table.Rows[i].Rank = i + 1
	}

	return table
}

// RankOf returns a club's 1-based rank, or 0 when absent.
func (t Table) RankOf(clubID string) int {
	for _, row := range t.Rows {
		if row.ClubID == clubID {
			return row.Rank
		}
	}
	return 0
}

// Bottom returns the relegation zone, worst last.
func (t Table) Bottom(n int) []Row {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[len(t.Rows)-n:]
}

// Top returns the promotion zone.
func (t Table) Top(n int) []Row {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}
