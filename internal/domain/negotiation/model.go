package negotiation

import (
	"fmt"
	"time"
)

// Offer status values. OPEN offers sit in the active set until their
// response date; everything else is a resolved outcome.
const (
	StatusOpen      = "OPEN"
	StatusAccepted  = "ACCEPTED"
	StatusCountered = "COUNTERED"
	StatusRejected  = "REJECTED"
	StatusBlocked   = "BLOCKED"
	StatusLocked    = "LOCKED"
)

// MaxStep is the rejection count that trips the temporary lockout.
const MaxStep = 3

// Offer is one pending contract proposal from a club to a player.
// A player holds at most one active offer at a time.
type Offer struct {
	ID           string
	PlayerID     string
	ClubID       string
	Salary       int64
	Bonus        int64
	Years        int
	ResponseDate time.Time
	Step         int
	Status       string

	// FreeAgentOffer marks approaches to out-of-contract players;
	// rejection of these triggers the long free-agent lockout.
	FreeAgentOffer bool
}

func (o Offer) Due(date time.Time) bool {
	return o.Status == StatusOpen && !o.ResponseDate.After(date)
}

func (o Offer) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("offer id is required")
	}
	if o.PlayerID == "" {
		return fmt.Errorf("offer player id is required")
	}
	if o.ClubID == "" {
		return fmt.Errorf("offer club id is required")
	}
	if o.Salary <= 0 {
		return fmt.Errorf("offer salary must be positive")
	}
	if o.Years < 1 || o.Years > 5 {
		return fmt.Errorf("invalid offer length: %d years", o.Years)
	}
	if o.Step < 0 || o.Step > MaxStep {
		return fmt.Errorf("invalid offer step: %d", o.Step)
	}
	return nil
}
