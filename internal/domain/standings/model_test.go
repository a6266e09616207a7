package standings

import (
	"testing"
	"time"

	"github.com/andriatmoko/gaffer/internal/domain/fixture"
)

func leagueResult(id, home, away string, hs, as int) fixture.Fixture {
	return fixture.Fixture{
		ID:          id,
		Competition: fixture.CompetitionLeague,
		Tier:        1,
		HomeClubID:  home,
		AwayClubID:  away,
		Date:        time.Date(2025, time.September, 6, 0, 0, 0, 0, time.UTC),
		Status:      fixture.StatusFinished,
		HomeScore:   &hs,
		AwayScore:   &as,
	}
}

func TestCompute_Ordering(t *testing.T) {
	clubs := []string{"a", "b", "c", "d"}
	fixtures := []fixture.Fixture{
		leagueResult("f1", "a", "b", 2, 0),
		leagueResult("f2", "c", "d", 1, 1),
		leagueResult("f3", "a", "c", 3, 1),
		leagueResult("f4", "b", "d", 0, 1),
	}

	table := Compute(1, clubs, fixtures)
	if len(table.Rows) != 4 {
		t.Fatalf("unexpected row count: %d", len(table.Rows))
	}

	wantOrder := []string{"a", "d", "c", "b"}
	for i, want := range wantOrder {
		if table.Rows[i].ClubID != want {
			t.Fatalf("rank %d: got=%s want=%s", i+1, table.Rows[i].ClubID, want)
		}
		if table.Rows[i].Rank != i+1 {
			t.Fatalf("rank field mismatch at %d: %d", i, table.Rows[i].Rank)
		}
	}

	if top := table.Rows[0]; top.Points != 6 || top.GoalsFor != 5 || top.GoalsAgainst != 1 {
		t.Fatalf("unexpected leader line: %+v", top)
	}
}

func TestCompute_TiebreakByClubID(t *testing.T) {
	clubs := []string{"b", "a"}
	fixtures := []fixture.Fixture{
		leagueResult("f1", "a", "b", 1, 1),
	}

	table := Compute(1, clubs, fixtures)
	if table.Rows[0].ClubID != "a" || table.Rows[1].ClubID != "b" {
		t.Fatalf("identical records must order by club ID: %+v", table.Rows)
	}
}

func TestCompute_IgnoresOtherCompetitions(t *testing.T) {
	cup := leagueResult("f1", "a", "b", 4, 0)
	cup.Competition = fixture.CompetitionCup
	otherTier := leagueResult("f2", "a", "b", 4, 0)
	otherTier.Tier = 2
	pending := leagueResult("f3", "a", "b", 4, 0)
	pending.Status = fixture.StatusScheduled

	table := Compute(1, []string{"a", "b"}, []fixture.Fixture{cup, otherTier, pending})
	for _, row := range table.Rows {
		if row.Played != 0 {
			t.Fatalf("club %s counted a non-league-tier-1 result", row.ClubID)
		}
	}
}

func TestBottomAndTop(t *testing.T) {
	clubs := []string{"a", "b", "c"}
	fixtures := []fixture.Fixture{
		leagueResult("f1", "a", "b", 2, 0),
		leagueResult("f2", "b", "c", 0, 1),
	}

	table := Compute(1, clubs, fixtures)
	bottom := table.Bottom(1)
	if len(bottom) != 1 || bottom[0].ClubID != "b" {
		t.Fatalf("unexpected relegation zone: %+v", bottom)
	}
	top := table.Top(2)
	if len(top) != 2 || table.RankOf(top[0].ClubID) != 1 {
		t.Fatalf("unexpected promotion zone: %+v", top)
	}

	if table.RankOf("missing") != 0 {
		t.Fatalf("absent club must rank 0")
	}
}
