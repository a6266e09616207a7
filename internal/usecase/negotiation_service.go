package usecase

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/andriatmoko/gaffer/internal/domain/club"
	"github.com/andriatmoko/gaffer/internal/domain/negotiation"
	"github.com/andriatmoko/gaffer/internal/domain/player"
	"github.com/andriatmoko/gaffer/internal/domain/world"
	"github.com/andriatmoko/gaffer/internal/platform/logging"
)

const (
	offerResponseDays = 3

	// Temporary lockout after the final rejection; the free-agent
	// variant spans most of a season.
	negotiationLockoutDays = 90
	freeAgentLockoutDays   = 270

	// Offers at or above this share of the computed demand keep the
	// player at the table (a counter instead of a plain rejection).
	counterThresholdShare = 0.85
)

// Verdict is the external demand evaluation consumed by the engine.
type Verdict struct {
	Accept       bool
	Insulting    bool
	DemandSalary int64
}

// DemandEvaluator computes a player's verdict on an offer. It must be
// a pure function of its inputs.
type DemandEvaluator interface {
	Evaluate(p player.Player, offeringClub club.Club, offer negotiation.Offer) Verdict
}

// SalaryDemandEvaluator is the default evaluator: demand scales with
// strength and shrinks a little for reputable clubs, the insult line
// sits at half the demand.
type SalaryDemandEvaluator struct{}

func (SalaryDemandEvaluator) Evaluate(p player.Player, offeringClub club.Club, offer negotiation.Offer) Verdict {
	base := p.Salary
	if base <= 0 {
		base = int64(p.Strength) * 1200
	}

	demand := float64(base) * (1.0 + float64(p.Strength)/120.0)
	demand *= 1.15 - float64(offeringClub.Reputation)*0.015
	// Each negotiation round hardens the demand a touch.
	demand *= 1.0 + 0.05*float64(offer.Step)

	v := Verdict{DemandSalary: int64(demand)}
	switch {
	case offer.Salary >= v.DemandSalary:
		v.Accept = true
	case float64(offer.Salary) < demand/2:
		v.Insulting = true
	}
	return v
}

// NegotiationService runs the per-offer state machine.
type NegotiationService struct {
	evaluator DemandEvaluator
	notifier  Notifier
	logger    *logging.Logger
}

func NewNegotiationService(evaluator DemandEvaluator, notifier Notifier, logger *logging.Logger) *NegotiationService {
	if evaluator == nil {
		evaluator = SalaryDemandEvaluator{}
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &NegotiationService{evaluator: evaluator, notifier: notifier, logger: logger}
}

// OpenOffer registers a new offer against the snapshot. The player
// must be free of an active offer and of every applicable lockout.
func (s *NegotiationService) OpenOffer(w *world.World, playerID, clubID string, salary, bonus int64, years int, freeAgentOffer bool) error {
	p, ok := w.PlayerByID(playerID)
	if !ok {
		return fmt.Errorf("%w: unknown player %s", ErrInvalidInput, playerID)
	}
	if _, ok := w.ClubByID(clubID); !ok {
		return fmt.Errorf("%w: unknown club %s", ErrInvalidInput, clubID)
	}
	if _, active := w.Offers[playerID]; active {
		return fmt.Errorf("%w: player %s already has an active offer", ErrInvalidInput, playerID)
	}
	if p.BlockedFor(clubID) {
		return fmt.Errorf("%w: player %s permanently blocks club %s", ErrInvalidInput, playerID, clubID)
	}
	if p.NegotiationLockedUntil != nil && w.Date.Before(*p.NegotiationLockedUntil) {
		return fmt.Errorf("%w: player %s negotiation locked until %s", ErrInvalidInput, playerID, p.NegotiationLockedUntil.Format(time.DateOnly))
	}
	if freeAgentOffer && p.FreeAgentLockedUntil != nil && w.Date.Before(*p.FreeAgentLockedUntil) {
		return fmt.Errorf("%w: player %s free-agent locked until %s", ErrInvalidInput, playerID, p.FreeAgentLockedUntil.Format(time.DateOnly))
	}
	if !freeAgentOffer && p.ContractLockedUntil != nil && w.Date.Before(*p.ContractLockedUntil) {
		return fmt.Errorf("%w: player %s contract locked until %s", ErrInvalidInput, playerID, p.ContractLockedUntil.Format(time.DateOnly))
	}

	step := w.OfferSteps[offerStepKey(playerID, clubID)]
	offer := negotiation.Offer{
		ID:             offerID(playerID, clubID, step, w.Date),
		PlayerID:       playerID,
		ClubID:         clubID,
		Salary:         salary,
		Bonus:          bonus,
		Years:          years,
		ResponseDate:   w.Date.AddDate(0, 0, offerResponseDays),
		Step:           step,
		Status:         negotiation.StatusOpen,
		FreeAgentOffer: freeAgentOffer,
	}
	if err := offer.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	w.Offers[playerID] = offer
	return nil
}

// ResolveDue processes every offer whose response date has arrived.
// The offer leaves the active set the same day regardless of outcome,
// and every transition emits exactly one notification.
func (s *NegotiationService) ResolveDue(w *world.World) {
	playerIDs := make([]string, 0, len(w.Offers))
	for id, o := range w.Offers {
		if o.Due(w.Date) {
			playerIDs = append(playerIDs, id)
		}
	}
	sort.Strings(playerIDs)

	for _, playerID := range playerIDs {
		offer := w.Offers[playerID]
		delete(w.Offers, playerID)

		p, ok := w.PlayerByID(playerID)
		if !ok {
			// A vanished player must not abort the rest of the day.
			continue
		}
		offeringClub, _ := w.ClubByID(offer.ClubID)

		verdict := s.evaluator.Evaluate(p, offeringClub, offer)
		outcome := s.transition(w, &p, offer, verdict)
		w.Players[playerID] = p

		s.logger.Info("negotiation resolved",
			"player_id", playerID,
			"club_id", offer.ClubID,
			"step", offer.Step,
			"outcome", outcome,
		)
	}
}

func (s *NegotiationService) transition(w *world.World, p *player.Player, offer negotiation.Offer, verdict Verdict) string {
	stepKey := offerStepKey(offer.PlayerID, offer.ClubID)

	switch {
	case verdict.Insulting:
		// An insulting bid skips the normal rejection ladder entirely.
		p.Block(offer.ClubID)
		delete(w.OfferSteps, stepKey)
		s.notify(w, offer, negotiation.StatusBlocked, MessageOfferBlocked,
			"reason", "insulting offer")
		return negotiation.StatusBlocked

	case verdict.Accept:
		s.applyContract(p, offer)
		delete(w.OfferSteps, stepKey)
		s.notify(w, offer, negotiation.StatusAccepted, MessageOfferAccepted,
			"salary", strconv.FormatInt(offer.Salary, 10),
			"years", strconv.Itoa(offer.Years))
		return negotiation.StatusAccepted
	}

	nextStep := offer.Step + 1
	if nextStep >= negotiation.MaxStep {
		until := w.Date.AddDate(0, 0, negotiationLockoutDays)
		p.NegotiationLockedUntil = &until
		delete(w.OfferSteps, stepKey)
		s.lockFreeAgent(w, p, offer)
		s.notify(w, offer, negotiation.StatusLocked, MessageOfferLockout,
			"locked_until", until.Format(time.DateOnly))
		return negotiation.StatusLocked
	}

	w.OfferSteps[stepKey] = nextStep

	if float64(offer.Salary) >= float64(verdict.DemandSalary)*counterThresholdShare {
		s.notify(w, offer, negotiation.StatusCountered, MessageOfferCountered,
			"demand", strconv.FormatInt(verdict.DemandSalary, 10),
			"step", strconv.Itoa(nextStep))
		return negotiation.StatusCountered
	}

	s.notify(w, offer, negotiation.StatusRejected, MessageOfferRejected,
		"step", strconv.Itoa(nextStep))
	return negotiation.StatusRejected
}

func (s *NegotiationService) applyContract(p *player.Player, offer negotiation.Offer) {
	p.Salary = offer.Salary
	p.ContractYears = offer.Years
	if offer.FreeAgentOffer {
		p.ClubID = offer.ClubID
		p.FreeAgent = false
	}
}

// lockFreeAgent imposes the season-scale free-agent lockout on a
// rejected approach to an out-of-contract player. It is separate from
// the club-contract lockout on purpose.
func (s *NegotiationService) lockFreeAgent(w *world.World, p *player.Player, offer negotiation.Offer) {
	if !offer.FreeAgentOffer {
		return
	}
	until := w.Date.AddDate(0, 0, freeAgentLockoutDays)
	p.FreeAgentLockedUntil = &until
	s.notifier.Notify(Message{
		Date:    w.Date,
		Kind:    MessageFreeAgentLockout,
		ClubID:  offer.ClubID,
		Subject: "Free agent walks away",
		Body:    renderBody("player_id", offer.PlayerID, "locked_until", until.Format(time.DateOnly)),
	})
}

func (s *NegotiationService) notify(w *world.World, offer negotiation.Offer, status, kind string, extra ...string) {
	pairs := append([]string{
		"player_id", offer.PlayerID,
		"status", status,
	}, extra...)
	s.notifier.Notify(Message{
		Date:    w.Date,
		Kind:    kind,
		ClubID:  offer.ClubID,
		Subject: "Contract talks: " + status,
		Body:    renderBody(pairs...),
	})
}

func offerStepKey(playerID, clubID string) string {
	return playerID + "|" + clubID
}

func offerID(playerID, clubID string, step int, date time.Time) string {
	return "offer-" + playerID + "-" + clubID + "-" + strconv.Itoa(step) + "-" + date.Format(time.DateOnly)
}
