package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/andriatmoko/gaffer/internal/domain/fixture"
	"github.com/andriatmoko/gaffer/internal/domain/season"
	"github.com/andriatmoko/gaffer/internal/domain/world"
	"github.com/andriatmoko/gaffer/internal/platform/logging"
)

// Calendar loop states.
const (
	StateIdle         = "IDLE"
	StateAwaitingDraw = "AWAITING_DRAW_CONFIRMATION"
	StateJumping      = "JUMPING"
)

// CalendarService owns the date cursor. Every subsystem works on a
// snapshot it hands out; the one Commit per tick is the only write to
// shared state, so a tick is atomic by construction.
type CalendarService struct {
	store        *world.Store
	draws        *CupDrawService
	recovery     *RecoveryService
	negotiation  *NegotiationService
	transition   *TransitionService
	resolver     MatchResolver
	notifier     Notifier
	logger       *logging.Logger
	viewerClubID string

	mu        sync.Mutex
	state     string
	pending   *DrawProposal
	intensity TrainingIntensity
}

func NewCalendarService(
	store *world.Store,
	draws *CupDrawService,
	recovery *RecoveryService,
	negotiation *NegotiationService,
	transition *TransitionService,
	resolver MatchResolver,
	notifier Notifier,
	viewerClubID string,
	logger *logging.Logger,
) *CalendarService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CalendarService{
		store:        store,
		draws:        draws,
		recovery:     recovery,
		negotiation:  negotiation,
		transition:   transition,
		resolver:     resolver,
		notifier:     notifier,
		logger:       logger,
		viewerClubID: viewerClubID,
		state:        StateIdle,
		intensity:    IntensityNormal,
	}
}

func (s *CalendarService) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *CalendarService) CurrentDate() time.Time {
	return s.store.Snapshot().Date
}

// PendingDraw returns the proposal the loop is frozen on, if any.
func (s *CalendarService) PendingDraw() (DrawProposal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return DrawProposal{}, false
	}
	return *s.pending, true
}

// SetTrainingIntensity stores the externally owned training setting
// read by the recovery transform.
func (s *CalendarService) SetTrainingIntensity(v TrainingIntensity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intensity = v
}

// Advance simulates exactly one day. When a cup draw is due the cursor
// freezes on a proposal and nothing else runs until ConfirmDraw.
func (s *CalendarService) Advance(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advanceLocked(ctx)
}

func (s *CalendarService) advanceLocked(ctx context.Context) error {
	if s.state == StateAwaitingDraw {
		return ErrDrawPending
	}

	ctx, span := startUsecaseSpan(ctx, "usecase.CalendarService.Advance")
	defer span.End()

	w := s.store.Snapshot()

	if slot, due := w.Template.DrawSlotOn(w.Date); due && !w.ProcessedDraws[slot.ID] {
		return s.proposeDraw(w, slot)
	}

	if err := s.resolveDueFixtures(ctx, w); err != nil {
		return err
	}

	if days := season.DaysBetween(w.LastRecovery, w.Date); days > 0 {
		s.recovery.Apply(w, days, s.intensity)
	}
	w.LastRecovery = w.Date

	s.clearExpiredLockouts(w)
	s.negotiation.ResolveDue(w)

	if w.Date.Equal(w.Template.TransitionDate()) {
		if err := s.transition.Run(w, s.viewerClubID); err != nil {
			return fmt.Errorf("season transition: %w", err)
		}
	}

	// One commit covers the whole day's updates plus the cursor move.
	w.Date = w.Date.AddDate(0, 0, 1)
	s.store.Commit(w)
	return nil
}

func (s *CalendarService) proposeDraw(w *world.World, slot season.Slot) error {
	participants, err := s.cupParticipants(w, slot.Round)
	if err != nil {
		return err
	}

	pairs, err := s.draws.Draw(slot.Label, w.Template.Year, w.SessionSeed, participants, w.Clubs)
	if err != nil {
		return fmt.Errorf("cup draw %s: %w", slot.Label, err)
	}

	roundSlot, ok := w.Template.CupRoundSlot(slot.Round)
	if !ok {
		return fmt.Errorf("%w: no match slot for cup round %d", ErrInvalidInput, slot.Round)
	}

	s.pending = &DrawProposal{
		SlotID: slot.ID,
		Label:  slot.Label,
		Round:  slot.Round,
		Date:   roundSlot.Start,
		Pairs:  pairs,
	}
	s.state = StateAwaitingDraw

	s.notifier.Notify(Message{
		Date:    w.Date,
		Kind:    MessageDrawProposed,
		Subject: slot.Label + " draw",
		Body:    renderBody("label", slot.Label, "ties", strconv.Itoa(len(pairs))),
	})
	s.logger.Info("cup draw proposed, awaiting confirmation",
		"label", slot.Label,
		"round", slot.Round,
		"ties", len(pairs),
	)
	return nil
}

// cupParticipants: the first round takes the full pyramid, later
// rounds take the previous round's winners.
func (s *CalendarService) cupParticipants(w *world.World, round int) ([]string, error) {
	if round == 1 {
		all := w.SortedClubIDs()
		if len(all) != season.CupRoundSize(1) {
			return nil, fmt.Errorf("%w: cup entry has %d clubs, want %d", ErrInvalidInput, len(all), season.CupRoundSize(1))
		}
		return all, nil
	}

	winners := w.CupWinners(round - 1)
	if len(winners) != season.CupRoundSize(round) {
		return nil, fmt.Errorf("%w: cup round %d has %d survivors, want %d", ErrInvalidInput, round, len(winners), season.CupRoundSize(round))
	}
	return winners, nil
}

// ConfirmDraw commits the frozen proposal: fixtures appended, both
// clubs of every tie flagged as cup participants, the draw slot marked
// processed, and the date advanced by one day.
func (s *CalendarService) ConfirmDraw(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, span := startUsecaseSpan(ctx, "usecase.CalendarService.ConfirmDraw")
	defer span.End()

	if s.state != StateAwaitingDraw || s.pending == nil {
		return ErrNoDrawPending
	}
	proposal := *s.pending

	w := s.store.Snapshot()
	for _, pair := range proposal.Pairs {
		w.Fixtures = append(w.Fixtures, fixture.Fixture{
			ID:          cupFixtureID(season.Slot{ID: proposal.SlotID}, pair),
			Competition: fixture.CompetitionCup,
			Label:       proposal.Label,
			Round:       proposal.Round,
			HomeClubID:  pair.HomeClubID,
			AwayClubID:  pair.AwayClubID,
			Date:        proposal.Date,
			Status:      fixture.StatusScheduled,
		})
		for _, clubID := range []string{pair.HomeClubID, pair.AwayClubID} {
			if c, ok := w.Clubs[clubID]; ok {
				c.InCup = true
				w.Clubs[clubID] = c
			}
		}
	}
	w.ProcessedDraws[proposal.SlotID] = true
	w.Date = w.Date.AddDate(0, 0, 1)
	s.store.Commit(w)

	s.pending = nil
	s.state = StateIdle

	s.notifier.Notify(Message{
		Date:    w.Date,
		Kind:    MessageDrawConfirmed,
		Subject: proposal.Label + " draw confirmed",
		Body:    renderBody("label", proposal.Label, "ties", strconv.Itoa(len(proposal.Pairs))),
	})
	return nil
}

func (s *CalendarService) resolveDueFixtures(ctx context.Context, w *world.World) error {
	due := w.FixturesDue(w.Date)
	if len(due) == 0 {
		return nil
	}

	out, err := s.resolver.Resolve(ctx, ResolveInput{
		Date:         w.Date,
		ViewerClubID: s.viewerClubID,
		Fixtures:     due,
		Clubs:        w.Clubs,
		Players:      w.Players,
		Coaches:      w.Coaches,
		Season:       w.Season,
		SessionSeed:  w.SessionSeed,
	})
	if err != nil {
		return fmt.Errorf("resolve fixtures: %w", err)
	}

	for _, f := range out.Fixtures {
		s.applyResolvedFixture(w, f)
	}
	for clubID, c := range out.Clubs {
		if _, ok := w.Clubs[clubID]; ok {
			w.Clubs[clubID] = c
		}
	}
	for playerID, p := range out.Players {
		if _, ok := w.Players[playerID]; ok {
			w.Players[playerID] = p
		}
	}
	for playerID, rating := range out.Ratings {
		if p, ok := w.Players[playerID]; ok {
			p.LastRating = rating
			w.Players[playerID] = p
		}
	}
	for _, offer := range out.AIOffers {
		if err := s.negotiation.OpenOffer(w, offer.PlayerID, offer.ClubID, offer.Salary, offer.Bonus, offer.Years, offer.FreeAgentOffer); err != nil {
			// AI offers that violate a lockout are simply dropped.
			s.logger.Debug("ai offer skipped", "player_id", offer.PlayerID, "error", err)
		}
	}

	s.notifier.Notify(Message{
		Date:    w.Date,
		Kind:    MessageMatchResult,
		ClubID:  s.viewerClubID,
		Subject: "Matchday results",
		Body:    renderBody("resolved", strconv.Itoa(len(out.Fixtures))),
	})
	return nil
}

// applyResolvedFixture enforces the write-once lifecycle: a fixture
// already finished in the snapshot is never overwritten.
func (s *CalendarService) applyResolvedFixture(w *world.World, f fixture.Fixture) {
	for i := range w.Fixtures {
		if w.Fixtures[i].ID != f.ID {
			continue
		}
		if w.Fixtures[i].Finished() {
			s.logger.Warn("dropping second result for finished fixture", "fixture_id", f.ID)
			return
		}
		w.Fixtures[i] = f
		return
	}
}

// clearExpiredLockouts is the single place lockout dates are cleared;
// the threshold is inclusive, the first day at or past the stored date
// unlocks.
func (s *CalendarService) clearExpiredLockouts(w *world.World) {
	expired := func(until *time.Time) bool {
		return until != nil && !w.Date.Before(*until)
	}

	for _, clubID := range w.SortedClubIDs() {
		c := w.Clubs[clubID]
		if expired(c.BoardLockedUntil) {
			c.BoardLockedUntil = nil
			w.Clubs[clubID] = c
		}
	}
	for _, playerID := range w.SortedPlayerIDs() {
		p := w.Players[playerID]
		changed := false
		if expired(p.NegotiationLockedUntil) {
			p.NegotiationLockedUntil = nil
			changed = true
		}
		if expired(p.ContractLockedUntil) {
			p.ContractLockedUntil = nil
			changed = true
		}
		if expired(p.FreeAgentLockedUntil) {
			p.FreeAgentLockedUntil = nil
			changed = true
		}
		if changed {
			w.Players[playerID] = p
		}
	}
}

// JumpToDate advances one day at a time until the cursor reaches the
// target, so no intermediate day's recovery, lockout expiry or mail is
// skipped. The jump stops early when a draw freezes the loop, and can
// be cancelled between ticks but never inside one.
func (s *CalendarService) JumpToDate(ctx context.Context, target time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateAwaitingDraw:
		return ErrDrawPending
	case StateJumping:
		return ErrJumpInProgress
	}

	target = season.Normalize(target)
	s.state = StateJumping
	defer func() {
		if s.state == StateJumping {
			s.state = StateIdle
		}
	}()

	for s.store.Snapshot().Date.Before(target) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.advanceLocked(ctx); err != nil {
			return err
		}
		if s.state == StateAwaitingDraw {
			return nil
		}
		s.state = StateJumping
	}
	return nil
}

// JumpToNextEvent advances to the next template slot date, or a single
// day when nothing is left this season.
func (s *CalendarService) JumpToNextEvent(ctx context.Context) error {
	w := s.store.Snapshot()
	upcoming := w.Template.EventDatesAfter(w.Date)
	if len(upcoming) == 0 {
		return s.Advance(ctx)
	}
	return s.JumpToDate(ctx, upcoming[0])
}
