package usecase

import (
	"context"
	"time"

	"github.com/andriatmoko/gaffer/internal/domain/club"
	"github.com/andriatmoko/gaffer/internal/domain/coach"
	"github.com/andriatmoko/gaffer/internal/domain/fixture"
	"github.com/andriatmoko/gaffer/internal/domain/player"
)

// ResolveInput hands the resolver everything a day's matches need.
// All of it is snapshot data; the resolver must not hold references
// past the call.
type ResolveInput struct {
	Date         time.Time
	ViewerClubID string
	Fixtures     []fixture.Fixture
	Clubs        map[string]club.Club
	Players      map[string]player.Player
	Coaches      map[string]coach.Coach
	Season       int
	SessionSeed  string
}

// AIOffer is a contract proposal generated by an AI club during
// resolution; the calendar loop feeds it into the negotiation engine.
type AIOffer struct {
	PlayerID       string
	ClubID         string
	Salary         int64
	Bonus          int64
	Years          int
	FreeAgentOffer bool
}

// ResolveOutput carries only changed entities.
type ResolveOutput struct {
	Fixtures []fixture.Fixture
	Clubs    map[string]club.Club
	Players  map[string]player.Player
	Ratings  map[string]float64
	AIOffers []AIOffer
}

// MatchResolver turns due fixtures into results. The engine depends on
// this shape only, not on any scoring model behind it.
type MatchResolver interface {
	Resolve(ctx context.Context, in ResolveInput) (ResolveOutput, error)
}
