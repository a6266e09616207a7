package usecase

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/andriatmoko/gaffer/internal/domain/club"
	"github.com/andriatmoko/gaffer/internal/domain/coach"
	"github.com/andriatmoko/gaffer/internal/domain/fixture"
	"github.com/andriatmoko/gaffer/internal/domain/negotiation"
	"github.com/andriatmoko/gaffer/internal/domain/player"
	"github.com/andriatmoko/gaffer/internal/domain/season"
	"github.com/andriatmoko/gaffer/internal/domain/standings"
	"github.com/andriatmoko/gaffer/internal/domain/world"
	"github.com/andriatmoko/gaffer/internal/platform/logging"
	"github.com/andriatmoko/gaffer/internal/platform/rng"
)

const (
	relegationCount      = 3
	promotionCount       = 3
	coachProtectionMonth = 6
	coachBlacklistYears  = 3
	retirementAge        = 34
	minSquadSize         = 20
)

// BudgetFormula computes a club's season budget injection from its new
// tier, reputation and final rank. The concrete numbers are an
// external concern; the default keeps them plausible.
type BudgetFormula func(tier, reputation, rank int) int64

func DefaultBudgetFormula(tier, reputation, rank int) int64 {
	var base int64
	switch tier {
	case 1:
		base = 20_000_000
	case 2:
		base = 8_000_000
	default:
		base = 3_000_000
	}
	base += base * int64(reputation) / 10
	if rank >= 1 && rank <= club.ClubsPerTier {
		base += int64(club.ClubsPerTier+1-rank) * 100_000
	}
	return base
}

// CoachEvaluator decides fire/keep for an AI coach outside the
// protection window.
type CoachEvaluator interface {
	ShouldFire(c coach.Coach, employer club.Club, finalRank int) bool
}

// RankExpectationEvaluator fires a coach whose club finished well
// below where its reputation says it belongs.
type RankExpectationEvaluator struct{}

func (RankExpectationEvaluator) ShouldFire(c coach.Coach, employer club.Club, finalRank int) bool {
	if finalRank <= 0 {
		return false
	}
	expected := (club.ReputationMax + 1 - employer.Reputation) * 2
	if expected > club.ClubsPerTier {
		expected = club.ClubsPerTier
	}
	return finalRank > expected+3
}

// SquadRegenerator refreshes one squad across the season boundary.
type SquadRegenerator interface {
	Regenerate(w *world.World, clubID string, src *rng.Source)
}

// AgeAndRefillRegenerator ages every player, retires the old, and
// drafts seeded youth until the squad is back at strength.
type AgeAndRefillRegenerator struct{}

func (AgeAndRefillRegenerator) Regenerate(w *world.World, clubID string, src *rng.Source) {
	squad := w.PlayerIDsOfClub(clubID)
	for _, playerID := range squad {
		p := w.Players[playerID]
		p.Age++
		if p.ContractYears > 0 {
			p.ContractYears--
		}
		if p.Age >= retirementAge {
			delete(w.Players, playerID)
			continue
		}
		w.Players[playerID] = p
	}

	positions := []player.Position{
		player.PositionGoalkeeper,
		player.PositionDefender,
		player.PositionMidfielder,
		player.PositionForward,
	}
	for i := len(w.PlayerIDsOfClub(clubID)); i < minSquadSize; i++ {
		strength := src.IntBetween(30, 68)
		p := player.Player{
			ID:            fmt.Sprintf("%s-y%d-%d", clubID, w.Season+1, i),
			ClubID:        clubID,
			Name:          fmt.Sprintf("Youth %s %d", clubID, i),
			Position:      positions[src.Intn(len(positions))],
			Age:           src.IntBetween(17, 20),
			Strength:      strength,
			Stamina:       src.IntBetween(40, 90),
			Salary:        int64(strength) * 900,
			ContractYears: src.IntBetween(2, 4),
			Condition:     100,
		}
		w.Players[p.ID] = p
	}
}

// TransitionService performs the end-of-season pass.
type TransitionService struct {
	schedule  *ScheduleService
	budget    BudgetFormula
	coachEval CoachEvaluator
	regen     SquadRegenerator
	notifier  Notifier
	logger    *logging.Logger
}

func NewTransitionService(schedule *ScheduleService, budget BudgetFormula, coachEval CoachEvaluator, regen SquadRegenerator, notifier Notifier, logger *logging.Logger) *TransitionService {
	if budget == nil {
		budget = DefaultBudgetFormula
	}
	if coachEval == nil {
		coachEval = RankExpectationEvaluator{}
	}
	if regen == nil {
		regen = AgeAndRefillRegenerator{}
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &TransitionService{
		schedule:  schedule,
		budget:    budget,
		coachEval: coachEval,
		regen:     regen,
		notifier:  notifier,
		logger:    logger,
	}
}

// Run executes the transition in order against one pre-pass snapshot:
// standings, promotion/relegation, reputation and budgets, coach
// tenure, stat resets, squad regeneration, and finally the next
// season's template and schedules. Every decision reads from the
// frozen pre snapshot, never from the half-mutated working state.
func (s *TransitionService) Run(w *world.World, viewerClubID string) error {
	pre := w.Clone()

	tables := make(map[int]standings.Table, club.TierCount)
	for tier := club.TierTop; tier <= club.TierCount; tier++ {
		tables[tier] = standings.Compute(tier, pre.ClubIDsInTier(tier), pre.Fixtures)
	}

	s.applyPromotionRelegation(w, pre, tables)
	s.applyBudgets(w, tables)
	s.evaluateCoaches(w, pre, tables, viewerClubID)
	s.resetSeasonState(w)
	s.regenerateSquads(w)
	s.recordChampions(w, pre, tables)

	w.Season++
	if err := s.RebuildSeason(w, pre.Template.Year+1); err != nil {
		return fmt.Errorf("rebuild season: %w", err)
	}

	s.notifier.Notify(Message{
		Date:    w.Date,
		Kind:    MessageSeasonTransition,
		Subject: "Season transition complete",
		Body: renderBody(
			"season", strconv.Itoa(w.Season),
			"champion", w.Champions.LeagueChampionID,
			"cup_winner", w.Champions.CupWinnerID,
		),
	})
	s.logger.Info("season transition complete",
		"season", w.Season,
		"champion", w.Champions.LeagueChampionID,
		"cup_winner", w.Champions.CupWinnerID,
	)

	return nil
}

func (s *TransitionService) applyPromotionRelegation(w, pre *world.World, tables map[int]standings.Table) {
	move := func(clubID string, toTier, repDelta int, kind string) {
		c, ok := w.Clubs[clubID]
		if !ok {
			return
		}
		c.Tier = toTier
		c.Reputation = club.ClampReputation(c.Reputation + repDelta)
		w.Clubs[clubID] = c
		s.notifier.Notify(Message{
			Date:    w.Date,
			Kind:    kind,
			ClubID:  clubID,
			Subject: "League placement changed",
			Body:    renderBody("tier", strconv.Itoa(toTier)),
		})
	}

	for tier := club.TierTop; tier <= club.TierCount; tier++ {
		for _, row := range tables[tier].Bottom(relegationCount) {
			toTier := tier + 1
			if tier == club.TierCount {
				toTier = club.TierAmateur
			}
			move(row.ClubID, toTier, -1, MessageRelegation)
		}
		if tier > club.TierTop {
			for _, row := range tables[tier].Top(promotionCount) {
				move(row.ClubID, tier-1, +1, MessagePromotion)
			}
		}
	}

	// The amateur pool has no complete table; the bottom tier refills
	// by seeded draw from it.
	pool := pre.ClubIDsInTier(club.TierAmateur)
	src := rng.NewFromString("promotion", strconv.Itoa(pre.Template.Year), pre.SessionSeed)
	for _, clubID := range src.ShuffleStrings(pool) {
		if len(w.ClubIDsInTier(club.TierCount)) >= club.ClubsPerTier {
			break
		}
		move(clubID, club.TierCount, +1, MessagePromotion)
	}
}

func (s *TransitionService) applyBudgets(w *world.World, tables map[int]standings.Table) {
	for _, clubID := range w.SortedClubIDs() {
		c := w.Clubs[clubID]
		if c.Amateur() {
			continue
		}
		rank := 0
		for _, table := range tables {
			if r := table.RankOf(clubID); r > 0 {
				rank = r
				break
			}
		}
		c.Budget += s.budget(c.Tier, c.Reputation, rank)
		w.Clubs[clubID] = c
	}
}

func (s *TransitionService) evaluateCoaches(w, pre *world.World, tables map[int]standings.Table, viewerClubID string) {
	for _, clubID := range pre.SortedClubIDs() {
		c := pre.Clubs[clubID]
		if c.Amateur() || clubID == viewerClubID {
			continue
		}
		head, ok := pre.CoachOfClub(clubID)
		if !ok {
			// No assigned coach is a data gap, not a reason to stop
			// the pass.
			continue
		}
		if head.TenureMonths(w.Date) < coachProtectionMonth {
			continue
		}

		finalRank := tables[c.Tier].RankOf(clubID)
		if !s.coachEval.ShouldFire(head, c, finalRank) {
			continue
		}

		fired := w.Coaches[head.ID]
		fired.ClubID = ""
		fired.Blacklist(clubID, w.Date.AddDate(coachBlacklistYears, 0, 0))
		w.Coaches[head.ID] = fired
		s.notifier.Notify(Message{
			Date:    w.Date,
			Kind:    MessageCoachFired,
			ClubID:  clubID,
			Subject: "Coach dismissed",
			Body:    renderBody("coach_id", head.ID, "final_rank", strconv.Itoa(finalRank)),
		})

		if replacement, ok := s.pickFreeCoach(w, clubID); ok {
			replacement.ClubID = clubID
			replacement.HiredAt = w.Date
			w.Coaches[replacement.ID] = replacement
			s.notifier.Notify(Message{
				Date:    w.Date,
				Kind:    MessageCoachHired,
				ClubID:  clubID,
				Subject: "New coach appointed",
				Body:    renderBody("coach_id", replacement.ID),
			})
		}
	}
}

// pickFreeCoach prefers the strongest available candidate; ties go to
// the lower ID so the pick is reproducible.
func (s *TransitionService) pickFreeCoach(w *world.World, clubID string) (coach.Coach, bool) {
	var candidates []coach.Coach
	for _, coachID := range w.SortedCoachIDs() {
		c := w.Coaches[coachID]
		if c.Employed() || c.BlacklistedAt(clubID, w.Date) {
			continue
		}
		candidates = append(candidates, c)
	}
	if len(candidates) == 0 {
		return coach.Coach{}, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Quality != candidates[j].Quality {
			return candidates[i].Quality > candidates[j].Quality
		}
		return candidates[i].ID < candidates[j].ID
	})
	return candidates[0], true
}

func (s *TransitionService) resetSeasonState(w *world.World) {
	for _, clubID := range w.SortedClubIDs() {
		c := w.Clubs[clubID]
		c.Stats = club.SeasonStats{}
		c.InCup = false
		w.Clubs[clubID] = c
	}
	w.Offers = make(map[string]negotiation.Offer)
	w.OfferSteps = make(map[string]int)
	w.ProcessedDraws = make(map[string]bool)
}

func (s *TransitionService) regenerateSquads(w *world.World) {
	for _, clubID := range w.SortedClubIDs() {
		src := rng.NewFromString("regen", clubID, strconv.Itoa(w.Season), w.SessionSeed)
		s.regen.Regenerate(w, clubID, src)
	}
}

func (s *TransitionService) recordChampions(w, pre *world.World, tables map[int]standings.Table) {
	champions := world.Champions{}
	if top := tables[club.TierTop].Top(1); len(top) == 1 {
		champions.LeagueChampionID = top[0].ClubID
	}
	for _, f := range pre.Fixtures {
		if f.Competition == fixture.CompetitionCup && f.Round == season.CupRoundCount && f.Finished() {
			champions.CupWinnerID = f.WinnerClubID()
		}
	}
	if champions.CupWinnerID == "" || champions.CupWinnerID == champions.LeagueChampionID {
		// Double winners send the league runner-up to the super cup.
		if top := tables[club.TierTop].Top(2); len(top) == 2 {
			champions.CupWinnerID = top[1].ClubID
		}
	}
	w.Champions = champions
}

// RebuildSeason installs the template, league schedules and super-cup
// fixture for the season starting in the given calendar year. It backs
// both the transition pass and the initial world bootstrap.
func (s *TransitionService) RebuildSeason(w *world.World, year int) error {
	tpl := season.Generate(year)
	if err := tpl.Validate(); err != nil {
		return fmt.Errorf("validate template: %w", err)
	}
	w.Template = tpl
	w.Fixtures = w.Fixtures[:0]

	for tier := club.TierTop; tier <= club.TierCount; tier++ {
		src := rng.NewFromString("league", strconv.Itoa(tier), strconv.Itoa(year), w.SessionSeed)
		fixtures, err := s.schedule.Generate(tpl, tier, w.ClubIDsInTier(tier), src)
		if err != nil {
			return fmt.Errorf("generate tier %d schedule: %w", tier, err)
		}
		w.Fixtures = append(w.Fixtures, fixtures...)
	}

	if slot, ok := tpl.SuperCupSlot(); ok && w.Champions.LeagueChampionID != "" && w.Champions.CupWinnerID != "" {
		w.Fixtures = append(w.Fixtures, fixture.Fixture{
			ID:          slot.ID + "-" + w.Champions.LeagueChampionID + "-" + w.Champions.CupWinnerID,
			Competition: fixture.CompetitionSuperCup,
			Label:       slot.Label,
			Round:       1,
			HomeClubID:  w.Champions.LeagueChampionID,
			AwayClubID:  w.Champions.CupWinnerID,
			Date:        slot.Start,
			Status:      fixture.StatusScheduled,
		})
		s.notifier.Notify(Message{
			Date:    w.Date,
			Kind:    MessageSuperCupScheduled,
			Subject: "Super cup scheduled",
			Body: renderBody(
				"home", w.Champions.LeagueChampionID,
				"away", w.Champions.CupWinnerID,
				"date", slot.Start.Format(time.DateOnly),
			),
		})
	}

	return nil
}
