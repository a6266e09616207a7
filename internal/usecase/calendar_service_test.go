package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andriatmoko/gaffer/internal/domain/fixture"
	"github.com/andriatmoko/gaffer/internal/domain/player"
	"github.com/andriatmoko/gaffer/internal/domain/season"
	"github.com/andriatmoko/gaffer/internal/domain/world"
)

// stubResolver finishes every due fixture as a 2-1 home win, which is
// decisive for knockout ties too.
type stubResolver struct {
	calls int
}

func (r *stubResolver) Resolve(_ context.Context, in ResolveInput) (ResolveOutput, error) {
	r.calls++
	var out ResolveOutput
	for _, f := range in.Fixtures {
		hs, as := 2, 1
		f.HomeScore, f.AwayScore = &hs, &as
		f.Status = fixture.StatusFinished
		out.Fixtures = append(out.Fixtures, f)
	}
	return out, nil
}

type calendarFixture struct {
	cal      *CalendarService
	store    *world.Store
	notifier *MemoryNotifier
	resolver *stubResolver
	start    time.Time
}

func newCalendarFixture(t *testing.T) *calendarFixture {
	t.Helper()

	w := fullWorld(t)
	w.Champions = world.Champions{LeagueChampionID: "t1-01", CupWinnerID: "t1-02"}

	trans := NewTransitionService(NewScheduleService(nil), nil, nil, nil, nil, nil)
	if err := trans.RebuildSeason(w, 2025); err != nil {
		t.Fatalf("rebuild season: %v", err)
	}
	w.Date = w.Template.SeasonStart()
	w.LastRecovery = w.Date

	store := world.NewStore(w)
	notifier := NewMemoryNotifier()
	resolver := &stubResolver{}
	cal := NewCalendarService(
		store,
		NewCupDrawService(nil),
		NewRecoveryService(nil),
		NewNegotiationService(nil, notifier, nil),
		trans,
		resolver,
		notifier,
		"t1-01",
		nil,
	)
	return &calendarFixture{cal: cal, store: store, notifier: notifier, resolver: resolver, start: w.Date}
}

func (f *calendarFixture) firstDrawDate(t *testing.T) time.Time {
	t.Helper()
	for _, slot := range f.store.Snapshot().Template.Slots {
		if slot.Type == season.SlotDraw && slot.Round == 1 {
			return slot.Start
		}
	}
	t.Fatalf("template has no first round draw slot")
	return time.Time{}
}

func TestAdvance_ResolvesDueFixtures(t *testing.T) {
	f := newCalendarFixture(t)

	// The season opens with the super cup on the first day.
	if err := f.cal.Advance(context.Background()); err != nil {
		t.Fatalf("advance: %v", err)
	}

	w := f.store.Snapshot()
	if !w.Date.Equal(f.start.AddDate(0, 0, 1)) {
		t.Fatalf("cursor at %s, want one day past %s", w.Date, f.start)
	}
	var found bool
	for _, fx := range w.Fixtures {
		if fx.Competition == fixture.CompetitionSuperCup {
			found = true
			if !fx.Finished() {
				t.Fatalf("due super cup fixture left unresolved")
			}
		}
	}
	if !found {
		t.Fatalf("super cup fixture missing")
	}
	if len(f.notifier.ByKind(MessageMatchResult)) != 1 {
		t.Fatalf("expected one matchday results message")
	}
}

func TestCalendar_DrawFreezeAndConfirm(t *testing.T) {
	f := newCalendarFixture(t)
	drawDate := f.firstDrawDate(t)
	ctx := context.Background()

	if err := f.cal.JumpToDate(ctx, drawDate.AddDate(0, 0, 5)); err != nil {
		t.Fatalf("jump: %v", err)
	}

	if f.cal.State() != StateAwaitingDraw {
		t.Fatalf("loop not frozen on the draw, state=%s", f.cal.State())
	}
	if got := f.store.Snapshot().Date; !got.Equal(drawDate) {
		t.Fatalf("cursor moved past the draw date: %s", got)
	}
	proposal, ok := f.cal.PendingDraw()
	if !ok || len(proposal.Pairs) != 32 {
		t.Fatalf("expected a 32 tie proposal, got %+v", proposal)
	}

	if err := f.cal.Advance(ctx); !errors.Is(err, ErrDrawPending) {
		t.Fatalf("advance during freeze: %v", err)
	}
	if err := f.cal.JumpToDate(ctx, drawDate.AddDate(0, 0, 9)); !errors.Is(err, ErrDrawPending) {
		t.Fatalf("jump during freeze: %v", err)
	}

	if err := f.cal.ConfirmDraw(ctx); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	w := f.store.Snapshot()
	if !w.Date.Equal(drawDate.AddDate(0, 0, 1)) {
		t.Fatalf("confirmation must advance exactly one day, cursor=%s", w.Date)
	}
	if f.cal.State() != StateIdle {
		t.Fatalf("state after confirmation: %s", f.cal.State())
	}

	var cupFixtures int
	for _, fx := range w.Fixtures {
		if fx.Competition == fixture.CompetitionCup && fx.Round == 1 {
			cupFixtures++
			if fx.Status != fixture.StatusScheduled {
				t.Fatalf("confirmed tie already resolved: %s", fx.ID)
			}
		}
	}
	if cupFixtures != 32 {
		t.Fatalf("expected 32 first round ties, got %d", cupFixtures)
	}
	for _, clubID := range w.SortedClubIDs() {
		if !w.Clubs[clubID].InCup {
			t.Fatalf("club %s not flagged as cup participant", clubID)
		}
	}
	if !w.ProcessedDraws[proposal.SlotID] {
		t.Fatalf("draw slot not marked processed")
	}
	if len(f.notifier.ByKind(MessageDrawProposed)) != 1 || len(f.notifier.ByKind(MessageDrawConfirmed)) != 1 {
		t.Fatalf("draw notifications missing")
	}
}

func TestCalendar_DrawNotRepeatedAfterConfirm(t *testing.T) {
	f := newCalendarFixture(t)
	drawDate := f.firstDrawDate(t)
	ctx := context.Background()

	if err := f.cal.JumpToDate(ctx, drawDate.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("jump: %v", err)
	}
	if err := f.cal.ConfirmDraw(ctx); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if err := f.cal.JumpToDate(ctx, drawDate.AddDate(0, 0, 3)); err != nil {
		t.Fatalf("jump past confirmed draw: %v", err)
	}
	if f.cal.State() != StateIdle {
		t.Fatalf("confirmed draw proposed again")
	}
}

func TestConfirmDraw_WithoutProposal(t *testing.T) {
	f := newCalendarFixture(t)
	if err := f.cal.ConfirmDraw(context.Background()); !errors.Is(err, ErrNoDrawPending) {
		t.Fatalf("expected ErrNoDrawPending, got %v", err)
	}
}

func TestAdvance_ClearsLockoutsInclusively(t *testing.T) {
	f := newCalendarFixture(t)
	ctx := context.Background()

	w := f.store.Snapshot()
	until := f.start.AddDate(0, 0, 1)
	p := w.Players["t2-03-p01"]
	p.NegotiationLockedUntil = &until
	w.Players["t2-03-p01"] = p
	f.store.Commit(w)

	if err := f.cal.Advance(ctx); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if f.store.Snapshot().Players["t2-03-p01"].NegotiationLockedUntil == nil {
		t.Fatalf("lockout cleared a day early")
	}

	if err := f.cal.Advance(ctx); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if f.store.Snapshot().Players["t2-03-p01"].NegotiationLockedUntil != nil {
		t.Fatalf("lockout not cleared on its end date")
	}
}

func TestJumpToDate_HealsInjuriesExactly(t *testing.T) {
	f := newCalendarFixture(t)
	ctx := context.Background()

	w := f.store.Snapshot()
	p := w.Players["t3-07-p02"]
	p.Injury = &player.Injury{Start: f.start, Days: 3}
	w.Players["t3-07-p02"] = p
	f.store.Commit(w)

	if err := f.cal.JumpToDate(ctx, f.start.AddDate(0, 0, 5)); err != nil {
		t.Fatalf("jump: %v", err)
	}

	got := f.store.Snapshot().Players["t3-07-p02"]
	if got.Injury != nil {
		t.Fatalf("injury survived a jump past its end date")
	}
	if got.Condition > 100-got.FatigueDebt {
		t.Fatalf("condition invariant broken after jump: %+v", got)
	}
}

func TestJumpToDate_CancelledBetweenTicks(t *testing.T) {
	f := newCalendarFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.cal.JumpToDate(ctx, f.start.AddDate(0, 0, 10))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
	if !f.store.Snapshot().Date.Equal(f.start) {
		t.Fatalf("cancelled jump moved the cursor")
	}
	if f.cal.State() != StateIdle {
		t.Fatalf("state after cancelled jump: %s", f.cal.State())
	}
}

func TestJumpToNextEvent_StopsAtNextSlot(t *testing.T) {
	f := newCalendarFixture(t)
	ctx := context.Background()

	// Step off the super cup day first, then jump.
	if err := f.cal.Advance(ctx); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if err := f.cal.JumpToNextEvent(ctx); err != nil {
		t.Fatalf("jump to next event: %v", err)
	}

	if got, want := f.store.Snapshot().Date, f.start.AddDate(0, 0, 7); !got.Equal(want) {
		t.Fatalf("cursor at %s, want first matchday %s", got, want)
	}
}

func TestApplyResolvedFixture_WriteOnce(t *testing.T) {
	f := newCalendarFixture(t)
	w := f.store.Snapshot()

	hs, as := 2, 1
	done := w.Fixtures[0]
	done.Status = fixture.StatusFinished
	done.HomeScore, done.AwayScore = &hs, &as
	w.ReplaceFixture(done)

	flipped := done
	nh, na := 9, 0
	flipped.HomeScore, flipped.AwayScore = &nh, &na
	f.cal.applyResolvedFixture(w, flipped)

	for _, fx := range w.Fixtures {
		if fx.ID == done.ID && *fx.HomeScore != 2 {
			t.Fatalf("finished fixture overwritten: %d", *fx.HomeScore)
		}
	}
}

func TestCalendar_DrawProposalDeterministic(t *testing.T) {
	ctx := context.Background()
	pairsOf := func() []DrawPair {
		f := newCalendarFixture(t)
		if err := f.cal.JumpToDate(ctx, f.firstDrawDate(t).AddDate(0, 0, 1)); err != nil {
			t.Fatalf("jump: %v", err)
		}
		proposal, ok := f.cal.PendingDraw()
		if !ok {
			t.Fatalf("no proposal after jump to draw date")
		}
		return proposal.Pairs
	}

	a, b := pairsOf(), pairsOf()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("identical sessions drew different ties at %d", i)
		}
	}
}
