package player

import (
	"fmt"
	"time"
)

// Position represents football position categories.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

// Injury is healed by date arithmetic: remaining days are always
// computed from Start and Days against the simulated date, never by
// decrementing a counter, so multi-day jumps heal exactly.
type Injury struct {
	Start time.Time
	Days  int
}

// RemainingDays at the given simulated date. Zero or less means healed.
func (i Injury) RemainingDays(date time.Time) int {
	elapsed := int(date.Sub(i.Start).Hours() / 24)
	return i.Days - elapsed
}

// Player is one squad member in the game world.
type Player struct {
	ID            string
	ClubID        string
	Name          string
	Position      Position
	Age           int
	Strength      int // 1..99
	Stamina       int // 1..99
	Salary        int64
	ContractYears int
	FreeAgent     bool

	// Condition is bounded above by 100-FatigueDebt at all times.
	Condition   float64
	FatigueDebt float64
	Injury      *Injury

	// Lockouts are "effective until" dates; the calendar loop is the
	// only writer that clears them.
	NegotiationLockedUntil *time.Time
	ContractLockedUntil    *time.Time
	FreeAgentLockedUntil   *time.Time

	// BlockedClubIDs holds permanent negotiation blocks from insulting
	// offers. Unlike lockouts these never expire.
	BlockedClubIDs map[string]struct{}

	LastRating float64
}

func (p Player) Injured(date time.Time) bool {
	return p.Injury != nil && p.Injury.RemainingDays(date) > 0
}

func (p Player) BlockedFor(clubID string) bool {
	_, ok := p.BlockedClubIDs[clubID]
	return ok
}

func (p *Player) Block(clubID string) {
	if p.BlockedClubIDs == nil {
		p.BlockedClubIDs = make(map[string]struct{})
	}
	p.BlockedClubIDs[clubID] = struct{}{}
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.Strength < 1 || p.Strength > 99 {
		return fmt.Errorf("invalid player strength: %d", p.Strength)
	}
	if p.Stamina < 1 || p.Stamina > 99 {
		return fmt.Errorf("invalid player stamina: %d", p.Stamina)
	}
	if p.Condition < 0 || p.Condition > 100 {
		return fmt.Errorf("invalid player condition: %f", p.Condition)
	}
	if p.FatigueDebt < 0 {
		return fmt.Errorf("negative fatigue debt: %f", p.FatigueDebt)
	}
	return nil
}
