package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/andriatmoko/gaffer/internal/config"
	"github.com/andriatmoko/gaffer/internal/domain/club"
	"github.com/andriatmoko/gaffer/internal/domain/fixture"
	"github.com/andriatmoko/gaffer/internal/domain/season"
	"github.com/andriatmoko/gaffer/internal/domain/standings"
	"github.com/andriatmoko/gaffer/internal/domain/world"
	"github.com/andriatmoko/gaffer/internal/matchengine"
	idgen "github.com/andriatmoko/gaffer/internal/platform/id"
	"github.com/andriatmoko/gaffer/internal/platform/logging"
	"github.com/andriatmoko/gaffer/internal/usecase"
)

// Simulation bundles one seeded world with its service stack.
type Simulation struct {
	cfg      config.Config
	store    *world.Store
	calendar *usecase.CalendarService
	notifier *usecase.MemoryNotifier
	logger   *logging.Logger
}

// SeasonReport is the summary emitted at each season boundary.
type SeasonReport struct {
	Season    int           `json:"season"`
	Year      int           `json:"year"`
	Champion  string        `json:"champion"`
	CupWinner string        `json:"cup_winner"`
	Tables    []TableReport `json:"tables"`
}

type TableReport struct {
	Tier int             `json:"tier"`
	Rows []standings.Row `json:"rows"`
}

// NewSimulation seeds the world and wires the services. An empty
// session seed in the config gets a random one, so replays require
// pinning SESSION_SEED explicitly.
func NewSimulation(cfg config.Config, sessionSeed string, logger *logging.Logger) (*Simulation, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if sessionSeed == "" {
		generated, err := idgen.NewRandomGenerator().NewID()
		if err != nil {
			return nil, fmt.Errorf("generate session seed: %w", err)
		}
		sessionSeed = generated
	}

	notifier := usecase.NewMemoryNotifier()
	scheduleSvc := usecase.NewScheduleService(logger)
	transitionSvc := usecase.NewTransitionService(scheduleSvc, nil, nil, nil, notifier, logger)

	w := SeedWorld(cfg.StartYear, sessionSeed)
	w.Champions = initialChampions(w)
	if err := transitionSvc.RebuildSeason(w, cfg.StartYear); err != nil {
		return nil, fmt.Errorf("bootstrap season: %w", err)
	}
	w.Date = w.Template.SeasonStart()
	w.LastRecovery = w.Date

	store := world.NewStore(w)
	calendar := usecase.NewCalendarService(
		store,
		usecase.NewCupDrawService(logger),
		usecase.NewRecoveryService(logger),
		usecase.NewNegotiationService(nil, notifier, logger),
		transitionSvc,
		matchengine.New(cfg.ResolverWorkers, logger),
		notifier,
		cfg.ViewerClubID,
		logger,
	)
	calendar.SetTrainingIntensity(usecase.TrainingIntensity(cfg.TrainingIntensity))

	return &Simulation{
		cfg:      cfg,
		store:    store,
		calendar: calendar,
		notifier: notifier,
		logger:   logger.With("session_seed", sessionSeed),
	}, nil
}

// initialChampions seeds the first super cup with the two most
// reputable top-tier clubs; from season two onward real champions
// take over.
func initialChampions(w *world.World) world.Champions {
	ids := w.ClubIDsInTier(club.TierTop)
	sort.Slice(ids, func(i, j int) bool {
		a, b := w.Clubs[ids[i]], w.Clubs[ids[j]]
		if a.Reputation != b.Reputation {
			return a.Reputation > b.Reputation
		}
		return a.ID < b.ID
	})
	return world.Champions{LeagueChampionID: ids[0], CupWinnerID: ids[1]}
}

func (s *Simulation) Calendar() *usecase.CalendarService {
	return s.calendar
}

func (s *Simulation) Notifier() *usecase.MemoryNotifier {
	return s.notifier
}

func (s *Simulation) Snapshot() *world.World {
	return s.store.Snapshot()
}

// Run advances day by day through the configured number of seasons,
// confirming cup draws automatically when the config says so. With
// auto-confirmation off it stops at the first pending draw.
func (s *Simulation) Run(ctx context.Context) ([]SeasonReport, error) {
	var reports []SeasonReport

	for len(reports) < s.cfg.Seasons {
		if err := ctx.Err(); err != nil {
			return reports, err
		}

		w := s.store.Snapshot()
		if w.Date.Equal(w.Template.TransitionDate()) {
			reports = append(reports, buildSeasonReport(w))
		}

		if err := s.calendar.Advance(ctx); err != nil {
			return reports, fmt.Errorf("advance %s: %w", w.Date.Format("2006-01-02"), err)
		}

		if s.calendar.State() == usecase.StateAwaitingDraw {
			if !s.cfg.AutoConfirmDraws {
				s.logger.Info("stopping at pending draw; confirmation required")
				return reports, nil
			}
			if err := s.calendar.ConfirmDraw(ctx); err != nil {
				return reports, fmt.Errorf("confirm draw: %w", err)
			}
		}
	}

	return reports, nil
}

func buildSeasonReport(w *world.World) SeasonReport {
	report := SeasonReport{
		Season: w.Season,
		Year:   w.Template.Year,
	}

	for tier := club.TierTop; tier <= club.TierCount; tier++ {
		table := standings.Compute(tier, w.ClubIDsInTier(tier), w.Fixtures)
		report.Tables = append(report.Tables, TableReport{Tier: tier, Rows: table.Rows})
		if tier == club.TierTop && len(table.Rows) > 0 {
			report.Champion = table.Rows[0].ClubID
		}
	}

	for _, f := range w.Fixtures {
		if f.Competition == fixture.CompetitionCup && f.Round == season.CupRoundCount && f.Finished() {
			report.CupWinner = f.WinnerClubID()
		}
	}

	return report
}
