package matchengine

import (
	"context"
	"math"
	"sort"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/andriatmoko/gaffer/internal/domain/club"
	"github.com/andriatmoko/gaffer/internal/domain/fixture"
	"github.com/andriatmoko/gaffer/internal/domain/player"
	"github.com/andriatmoko/gaffer/internal/platform/logging"
	"github.com/andriatmoko/gaffer/internal/platform/rng"
	"github.com/andriatmoko/gaffer/internal/usecase"
)

const (
	defaultWorkers = 4
	lineupSize     = 11

	homeAdvantage = 1.15
	baseExpGoals  = 1.30
	minExpGoals   = 0.2
	maxExpGoals   = 4.5
)

// Engine resolves due fixtures with a strength-driven scoring model.
// Each fixture draws from its own seeded stream, so resolution order
// and worker scheduling cannot change any result.
type Engine struct {
	workers int
	logger  *logging.Logger
}

func New(workers int, logger *logging.Logger) *Engine {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{workers: workers, logger: logger}
}

type playerEffect struct {
	playerID      string
	fatigueGain   float64
	conditionLoss float64
	rating        float64
	injuryDays    int
}

type fixtureResult struct {
	fixture fixture.Fixture
	effects []playerEffect
	offer   *usecase.AIOffer
}

// Resolve turns every due fixture into a result. Fixtures are scored
// concurrently on a worker pool and merged in fixture-ID order.
func (e *Engine) Resolve(ctx context.Context, in usecase.ResolveInput) (usecase.ResolveOutput, error) {
	if len(in.Fixtures) == 0 {
		return usecase.ResolveOutput{}, nil
	}

	pool, err := ants.NewPool(e.workers)
	if err != nil {
		return usecase.ResolveOutput{}, crerr.Wrap(err, "create worker pool")
	}
	defer pool.Release()

	results := make([]fixtureResult, len(in.Fixtures))
	var wg sync.WaitGroup
	for i, f := range in.Fixtures {
		if err := ctx.Err(); err != nil {
			return usecase.ResolveOutput{}, err
		}
		i, f := i, f
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			results[i] = e.playFixture(f, in)
		}); err != nil {
			wg.Done()
			return usecase.ResolveOutput{}, crerr.Wrap(err, "submit fixture job")
		}
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		return results[i].fixture.ID < results[j].fixture.ID
	})

	return e.merge(in, results), nil
}

func (e *Engine) merge(in usecase.ResolveInput, results []fixtureResult) usecase.ResolveOutput {
	out := usecase.ResolveOutput{
		Fixtures: make([]fixture.Fixture, 0, len(results)),
		Clubs:    make(map[string]club.Club),
		Players:  make(map[string]player.Player),
		Ratings:  make(map[string]float64),
	}

	clubOf := func(id string) (club.Club, bool) {
		if c, ok := out.Clubs[id]; ok {
			return c, true
		}
		c, ok := in.Clubs[id]
		return c, ok
	}
	playerOf := func(id string) (player.Player, bool) {
		if p, ok := out.Players[id]; ok {
			return p, true
		}
		p, ok := in.Players[id]
		return p, ok
	}

	for _, r := range results {
		out.Fixtures = append(out.Fixtures, r.fixture)

		if r.fixture.Competition == fixture.CompetitionLeague {
			e.applyLeagueStats(&out, clubOf, r.fixture)
		}

		for _, eff := range r.effects {
			p, ok := playerOf(eff.playerID)
			if !ok {
				continue
			}
			p.FatigueDebt += eff.fatigueGain
			p.Condition -= eff.conditionLoss
			if p.Condition < 0 {
				p.Condition = 0
			}
			if ceiling := 100 - p.FatigueDebt; p.Condition > ceiling {
				p.Condition = ceiling
			}
			if eff.injuryDays > 0 {
				p.Injury = &player.Injury{Start: in.Date, Days: eff.injuryDays}
			}
			out.Players[eff.playerID] = p
			out.Ratings[eff.playerID] = eff.rating
		}

		if r.offer != nil {
			out.AIOffers = append(out.AIOffers, *r.offer)
		}
	}

	return out
}

func (e *Engine) applyLeagueStats(out *usecase.ResolveOutput, clubOf func(string) (club.Club, bool), f fixture.Fixture) {
	if f.HomeScore == nil || f.AwayScore == nil {
		return
	}
	hs, as := *f.HomeScore, *f.AwayScore

	update := func(clubID string, scored, conceded int) {
		c, ok := clubOf(clubID)
		if !ok {
			return
		}
		c.Stats.Played++
		c.Stats.GoalsFor += scored
		c.Stats.GoalsAgainst += conceded
		switch {
		case scored > conceded:
			c.Stats.Won++
		case scored < conceded:
			c.Stats.Lost++
		default:
			c.Stats.Drawn++
		}
		out.Clubs[clubID] = c
	}

	update(f.HomeClubID, hs, as)
	update(f.AwayClubID, as, hs)
}

// playFixture scores one match from its own seeded stream.
func (e *Engine) playFixture(f fixture.Fixture, in usecase.ResolveInput) fixtureResult {
	src := rng.NewFromString("match", f.ID, in.SessionSeed)

	homeLineup := selectLineup(in, f.HomeClubID)
	awayLineup := selectLineup(in, f.AwayClubID)
	homeStrength := lineupStrength(in, homeLineup)
	awayStrength := lineupStrength(in, awayLineup)

	homeGoals := drawGoals(src, expectedGoals(homeStrength, awayStrength)*homeAdvantage)
	awayGoals := drawGoals(src, expectedGoals(awayStrength, homeStrength))

	resolved := f
	resolved.Status = fixture.StatusFinished
	resolved.HomeScore = &homeGoals
	resolved.AwayScore = &awayGoals

	if resolved.Knockout() && homeGoals == awayGoals {
		homePens, awayPens := shootout(src)
		resolved.HomePens = &homePens
		resolved.AwayPens = &awayPens
	}

	r := fixtureResult{fixture: resolved}
	r.effects = append(r.effects, lineupEffects(src, in, homeLineup, homeGoals, awayGoals)...)
	r.effects = append(r.effects, lineupEffects(src, in, awayLineup, awayGoals, homeGoals)...)
	r.offer = maybeAIOffer(src, in, f)
	return r
}

// selectLineup takes the strongest available players of a club.
// Amateur clubs may be short; whatever is fit plays.
func selectLineup(in usecase.ResolveInput, clubID string) []string {
	var squad []string
	for id, p := range in.Players {
		if p.ClubID == clubID && !p.Injured(in.Date) {
			squad = append(squad, id)
		}
	}
	sort.Slice(squad, func(i, j int) bool {
		a, b := in.Players[squad[i]], in.Players[squad[j]]
		if a.Strength != b.Strength {
			return a.Strength > b.Strength
		}
		return squad[i] < squad[j]
	})
	if len(squad) > lineupSize {
		squad = squad[:lineupSize]
	}
	return squad
}

func lineupStrength(in usecase.ResolveInput, lineup []string) float64 {
	if len(lineup) == 0 {
		// A club with nobody fit still fields a token side.
		return 20
	}
	total := 0.0
	for _, id := range lineup {
		p := in.Players[id]
		total += float64(p.Strength) * (0.5 + p.Condition/200)
	}
	return total / float64(len(lineup))
}

func expectedGoals(attacking, defending float64) float64 {
	if defending <= 0 {
		defending = 1
	}
	xg := baseExpGoals * math.Pow(attacking/defending, 1.8)
	if xg < minExpGoals {
		xg = minExpGoals
	}
	if xg > maxExpGoals {
		xg = maxExpGoals
	}
	return xg
}

// drawGoals samples a Poisson count by inverting the CDF with one
// uniform draw.
func drawGoals(src *rng.Source, lambda float64) int {
	u := src.Float64()
	prob := math.Exp(-lambda)
	cdf := prob
	goals := 0
	for cdf < u && goals < 9 {
		goals++
		prob *= lambda / float64(goals)
		cdf += prob
	}
	return goals
}

// shootout plays best-of-five plus sudden death; it never returns a
// tie.
func shootout(src *rng.Source) (int, int) {
	home, away := 0, 0
	for round := 0; round < 5; round++ {
		if src.Float64() < 0.76 {
			home++
		}
		if src.Float64() < 0.76 {
			away++
		}
	}
	for home == away {
		if src.Float64() < 0.76 {
			home++
		}
		if src.Float64() < 0.76 {
			away++
		}
	}
	return home, away
}

func lineupEffects(src *rng.Source, in usecase.ResolveInput, lineup []string, scored, conceded int) []playerEffect {
	performance := 0.0
	switch {
	case scored > conceded:
		performance = 0.8
	case scored < conceded:
		performance = -0.8
	}

	effects := make([]playerEffect, 0, len(lineup))
	for _, id := range lineup {
		p := in.Players[id]

		fatigue := float64(src.IntBetween(10, 22)) * (1.1 - float64(p.Stamina)/200)
		eff := playerEffect{
			playerID:      id,
			fatigueGain:   fatigue,
			conditionLoss: fatigue * 0.8,
			rating:        clampRating(6.0 + performance + (src.Float64()-0.5)*2.5),
		}
		// Roughly one knock per few matchdays across a squad.
		if src.Float64() < 0.025 {
			eff.injuryDays = src.IntBetween(7, 60)
		}
		effects = append(effects, eff)
	}
	return effects
}

func clampRating(v float64) float64 {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

// maybeAIOffer occasionally has the home club bid for an expiring
// player of the away side, feeding the negotiation engine.
func maybeAIOffer(src *rng.Source, in usecase.ResolveInput, f fixture.Fixture) *usecase.AIOffer {
	if src.Float64() >= 0.03 {
		return nil
	}

	var targets []string
	for id, p := range in.Players {
		if p.ClubID == f.AwayClubID && p.ContractYears <= 1 {
			targets = append(targets, id)
		}
	}
	if len(targets) == 0 {
		return nil
	}
	sort.Strings(targets)

	target := in.Players[targets[src.Intn(len(targets))]]
	return &usecase.AIOffer{
		PlayerID:       target.ID,
		ClubID:         f.HomeClubID,
		Salary:         target.Salary + target.Salary*int64(src.IntBetween(5, 30))/100,
		Bonus:          target.Salary / 4,
		Years:          src.IntBetween(2, 4),
		FreeAgentOffer: target.FreeAgent,
	}
}
