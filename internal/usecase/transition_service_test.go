package usecase

import (
	"testing"

	"github.com/andriatmoko/gaffer/internal/domain/club"
	"github.com/andriatmoko/gaffer/internal/domain/fixture"
	"github.com/andriatmoko/gaffer/internal/domain/negotiation"
	"github.com/andriatmoko/gaffer/internal/domain/season"
	"github.com/andriatmoko/gaffer/internal/domain/world"
)

func transitionWorld(t *testing.T) *world.World {
	t.Helper()
	w := fullWorld(t)
	w.Template = season.Generate(2025)
	w.Date = w.Template.TransitionDate()
	w.LastRecovery = w.Date
	for tier := club.TierTop; tier <= club.TierCount; tier++ {
		seedTierResults(w, tier)
	}
	return w
}

func newTransitionService(notifier Notifier) *TransitionService {
	return NewTransitionService(NewScheduleService(nil), nil, nil, nil, notifier, nil)
}

func TestRun_PromotionAndRelegation(t *testing.T) {
	svc := newTransitionService(nil)
	w := transitionWorld(t)

	if err := svc.Run(w, ""); err != nil {
		t.Fatalf("run: %v", err)
	}

	if c := w.Clubs["t1-16"]; c.Tier != 2 || c.Reputation != 4 {
		t.Fatalf("16th of the top tier: tier=%d rep=%d", c.Tier, c.Reputation)
	}
	if c := w.Clubs["t2-01"]; c.Tier != 1 || c.Reputation != 6 {
		t.Fatalf("second tier champion: tier=%d rep=%d", c.Tier, c.Reputation)
	}
	if c := w.Clubs["t3-18"]; !c.Amateur() {
		t.Fatalf("bottom of the bottom tier must drop to the amateur pool, got tier %d", c.Tier)
	}

	for tier := club.TierTop; tier <= club.TierCount; tier++ {
		if n := len(w.ClubIDsInTier(tier)); n != club.ClubsPerTier {
			t.Fatalf("tier %d holds %d clubs after transition", tier, n)
		}
	}
	if n := len(w.ClubIDsInTier(club.TierAmateur)); n != 10 {
		t.Fatalf("amateur pool holds %d clubs after transition", n)
	}
}

func TestRun_ReputationClamped(t *testing.T) {
	svc := newTransitionService(nil)
	w := transitionWorld(t)
	c := w.Clubs["t1-17"]
	c.Reputation = club.ReputationMin
	w.Clubs["t1-17"] = c

	if err := svc.Run(w, ""); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := w.Clubs["t1-17"].Reputation; got != club.ReputationMin {
		t.Fatalf("reputation dropped through the floor: %d", got)
	}
}

func TestRun_ChampionsAndNextSeason(t *testing.T) {
	notifier := NewMemoryNotifier()
	svc := newTransitionService(notifier)
	w := transitionWorld(t)

	if err := svc.Run(w, ""); err != nil {
		t.Fatalf("run: %v", err)
	}

	if w.Champions.LeagueChampionID != "t1-01" {
		t.Fatalf("unexpected champion: %s", w.Champions.LeagueChampionID)
	}
	// No cup final on record, so the league runner-up fills the second
	// super cup berth.
	if w.Champions.CupWinnerID != "t1-02" {
		t.Fatalf("unexpected cup berth: %s", w.Champions.CupWinnerID)
	}
	if w.Season != 2 {
		t.Fatalf("season not incremented: %d", w.Season)
	}
	if w.Template.Year != 2026 {
		t.Fatalf("template not rebuilt: year=%d", w.Template.Year)
	}

	wantLeague := club.TierCount * season.LeagueRounds * club.ClubsPerTier / 2
	if len(w.Fixtures) != wantLeague+1 {
		t.Fatalf("unexpected fixture count for new season: %d", len(w.Fixtures))
	}
	var supercup int
	for _, f := range w.Fixtures {
		if f.Competition == fixture.CompetitionSuperCup {
			supercup++
			if f.HomeClubID != "t1-01" || f.AwayClubID != "t1-02" {
				t.Fatalf("wrong super cup pairing: %s vs %s", f.HomeClubID, f.AwayClubID)
			}
		}
		if f.Status != fixture.StatusScheduled {
			t.Fatalf("carried a finished fixture into the new season: %s", f.ID)
		}
	}
	if supercup != 1 {
		t.Fatalf("expected one super cup fixture, got %d", supercup)
	}
	if len(notifier.ByKind(MessageSeasonTransition)) != 1 {
		t.Fatalf("expected one transition notification")
	}
}

func TestRun_CupWinnerTakesSuperCupBerth(t *testing.T) {
	svc := newTransitionService(nil)
	w := transitionWorld(t)
	hs, as := 2, 0
	w.Fixtures = append(w.Fixtures, fixture.Fixture{
		ID:          "cupfinal",
		Competition: fixture.CompetitionCup,
		Round:       season.CupRoundCount,
		HomeClubID:  "t2-05",
		AwayClubID:  "t1-03",
		Status:      fixture.StatusFinished,
		HomeScore:   &hs,
		AwayScore:   &as,
	})

	if err := svc.Run(w, ""); err != nil {
		t.Fatalf("run: %v", err)
	}

	if w.Champions.CupWinnerID != "t2-05" {
		t.Fatalf("cup winner lost its berth: %s", w.Champions.CupWinnerID)
	}
}

func TestRun_BudgetsFollowTierAndRank(t *testing.T) {
	svc := newTransitionService(nil)
	w := transitionWorld(t)

	if err := svc.Run(w, ""); err != nil {
		t.Fatalf("run: %v", err)
	}

	champion := w.Clubs["t1-01"].Budget
	relegated := w.Clubs["t1-16"].Budget
	if champion <= relegated {
		t.Fatalf("champion budget %d not above relegated club %d", champion, relegated)
	}
	if w.Clubs["am-01"].Budget != 0 {
		t.Fatalf("amateur club received a budget")
	}
}

func TestRun_FiresUnderperformingCoach(t *testing.T) {
	notifier := NewMemoryNotifier()
	svc := newTransitionService(notifier)
	w := transitionWorld(t)

	if err := svc.Run(w, ""); err != nil {
		t.Fatalf("run: %v", err)
	}

	// Reputation 5 sets the expectation at rank 12; 16th is past the
	// grace band, 15th is within it.
	fired := w.Coaches["coach-t1-16"]
	if fired.Employed() {
		t.Fatalf("16th placed coach kept the job")
	}
	if !fired.BlacklistedAt("t1-16", w.Date) {
		t.Fatalf("fired coach not blacklisted by the old club")
	}
	if kept := w.Coaches["coach-t1-15"]; !kept.Employed() {
		t.Fatalf("15th placed coach fired inside the grace band")
	}

	if _, ok := w.CoachOfClub("t1-16"); !ok {
		t.Fatalf("no replacement appointed")
	}
	if len(notifier.ByKind(MessageCoachFired)) == 0 || len(notifier.ByKind(MessageCoachHired)) == 0 {
		t.Fatalf("missing coach notifications")
	}
}

func TestRun_CoachProtectionWindow(t *testing.T) {
	svc := newTransitionService(nil)
	w := transitionWorld(t)
	c := w.Coaches["coach-t1-17"]
	c.HiredAt = w.Date.AddDate(0, -3, 0)
	w.Coaches["coach-t1-17"] = c

	if err := svc.Run(w, ""); err != nil {
		t.Fatalf("run: %v", err)
	}

	if !w.Coaches["coach-t1-17"].Employed() {
		t.Fatalf("coach fired inside the protection window")
	}
}

func TestRun_ViewerClubCoachUntouched(t *testing.T) {
	svc := newTransitionService(nil)
	w := transitionWorld(t)

	if err := svc.Run(w, "t1-18"); err != nil {
		t.Fatalf("run: %v", err)
	}

	if !w.Coaches["coach-t1-18"].Employed() {
		t.Fatalf("board decisions must not touch the viewer club")
	}
}

func TestRun_ResetsSeasonState(t *testing.T) {
	svc := newTransitionService(nil)
	w := transitionWorld(t)
	c := w.Clubs["t1-01"]
	c.InCup = true
	c.Stats = club.SeasonStats{Played: 34, Won: 30}
	w.Clubs["t1-01"] = c
	w.Offers["t1-02-p01"] = negotiation.Offer{ID: "o1", PlayerID: "t1-02-p01", ClubID: "t1-03", Salary: 1, Years: 1, Status: negotiation.StatusOpen}
	w.OfferSteps["t1-02-p01|t1-03"] = 2
	w.ProcessedDraws["2025-cup-r1-draw"] = true

	if err := svc.Run(w, ""); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := w.Clubs["t1-01"]; got.InCup || got.Stats != (club.SeasonStats{}) {
		t.Fatalf("club season state not reset: %+v", got)
	}
	if len(w.Offers) != 0 || len(w.OfferSteps) != 0 || len(w.ProcessedDraws) != 0 {
		t.Fatalf("negotiation and draw bookkeeping not reset")
	}
}

func TestRun_SquadRegeneration(t *testing.T) {
	svc := newTransitionService(nil)
	w := transitionWorld(t)
	veteran := w.Players["t1-01-p01"]
	veteran.Age = 33
	w.Players["t1-01-p01"] = veteran

	if err := svc.Run(w, ""); err != nil {
		t.Fatalf("run: %v", err)
	}

	if _, ok := w.Players["t1-01-p01"]; ok {
		t.Fatalf("player at retirement age still registered")
	}
	for _, clubID := range w.SortedClubIDs() {
		if n := len(w.PlayerIDsOfClub(clubID)); n < 20 {
			t.Fatalf("club %s squad not refilled: %d players", clubID, n)
		}
	}
	if p := w.Players["t1-01-p02"]; p.Age != 24+2%8+1 || p.ContractYears != 1 {
		t.Fatalf("survivor not aged into the new season: %+v", p)
	}
}

func TestRun_Deterministic(t *testing.T) {
	a := transitionWorld(t)
	b := transitionWorld(t)
	svc := newTransitionService(nil)

	if err := svc.Run(a, ""); err != nil {
		t.Fatalf("run a: %v", err)
	}
	if err := svc.Run(b, ""); err != nil {
		t.Fatalf("run b: %v", err)
	}

	if len(a.Fixtures) != len(b.Fixtures) {
		t.Fatalf("fixture counts diverged: %d vs %d", len(a.Fixtures), len(b.Fixtures))
	}
	for i := range a.Fixtures {
		if a.Fixtures[i].ID != b.Fixtures[i].ID {
			t.Fatalf("identical worlds diverged at fixture %d", i)
		}
	}
	for id, c := range a.Clubs {
		if b.Clubs[id].Tier != c.Tier {
			t.Fatalf("club %s tier diverged", id)
		}
	}
}
