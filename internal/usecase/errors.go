package usecase

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidClubCount is the fatal schedule-generation
	// precondition: a tier must hold exactly the required club count.
	ErrInvalidClubCount = errors.New("invalid club count for league schedule")

	// ErrOddParticipants marks a caller bug in a cup draw request.
	ErrOddParticipants = errors.New("cup draw requires an even participant count")

	// ErrDrawPending is returned by Advance while a cup draw awaits
	// confirmation; ErrNoDrawPending by ConfirmDraw without one.
	ErrDrawPending   = errors.New("cup draw awaiting confirmation")
	ErrNoDrawPending = errors.New("no cup draw awaiting confirmation")

	// ErrJumpInProgress rejects reentrant jump calls.
	ErrJumpInProgress = errors.New("date jump already in progress")
)
