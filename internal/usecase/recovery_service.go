package usecase

import (
	"github.com/andriatmoko/gaffer/internal/domain/world"
	"github.com/andriatmoko/gaffer/internal/platform/logging"
)

// TrainingIntensity is owned by the caller (a UI concern); the
// recovery transform only reads it.
type TrainingIntensity string

const (
	IntensityLight  TrainingIntensity = "LIGHT"
	IntensityNormal TrainingIntensity = "NORMAL"
	IntensityHeavy  TrainingIntensity = "HEAVY"
)

// RecoveryService applies the daily condition/fatigue transform.
type RecoveryService struct {
	logger *logging.Logger
}

func NewRecoveryService(logger *logging.Logger) *RecoveryService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RecoveryService{logger: logger}
}

// Apply advances every player's recovery by the given day count. The
// transform is pure over player fields, so catching up a multi-day gap
// with one call is exact. Injuries heal by date arithmetic against the
// snapshot date, never by counter decrements. Lockout expiry is the
// calendar loop's job, not this one's.
func (s *RecoveryService) Apply(w *world.World, days int, intensity TrainingIntensity) {
	if days <= 0 {
		return
	}

	for _, playerID := range w.SortedPlayerIDs() {
		p := w.Players[playerID]

		debtRate := debtRecoveryPerDay(p.Strength, p.Age)
		regenRate := conditionRegenPerDay(p.Strength, p.Stamina, intensity)

		for day := 0; day < days; day++ {
			p.FatigueDebt -= debtRate
			if p.FatigueDebt < 0 {
				p.FatigueDebt = 0
			}

			ceiling := 100 - p.FatigueDebt
			p.Condition += regenRate
			if p.Condition > ceiling {
				p.Condition = ceiling
			}
			if p.Condition < 0 {
				p.Condition = 0
			}
		}

		if p.Injury != nil && p.Injury.RemainingDays(w.Date) <= 0 {
			p.Injury = nil
		}

		w.Players[playerID] = p
	}
}

// debtRecoveryPerDay scales with strength and an age bracket.
// The curve is deliberately non-monotonic over age: the youngest
// shake off load fastest, the 24-29 bracket slowest, veterans sit in
// between because their bodies pace themselves.
func debtRecoveryPerDay(strength, age int) float64 {
	base := 2.0 + 4.0*float64(strength)/99.0
	switch {
	case age < 24:
		return base * 1.3
	case age < 30:
		return base * 0.7
	default:
		return base
	}
}

func conditionRegenPerDay(strength, stamina int, intensity TrainingIntensity) float64 {
	rate := 3.0 + 5.0*float64(strength+stamina)/198.0
	switch intensity {
	case IntensityLight:
		rate += 2.0
	case IntensityHeavy:
		rate -= 2.0
	}
	if rate < 0 {
		rate = 0
	}
	return rate
}
