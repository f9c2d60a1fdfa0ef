// Package decay computes remaining active substance from a dose history
// under single-compartment exponential elimination.
//
// Each dose decays independently: remaining = mg * 0.5^(elapsed/halfLife).
// The active level at an instant is the sum of every dose's remaining
// amount. Absorption and distribution are not modeled.
package decay

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/lazypower/halflife/internal/dose"
)

// ErrInvalidHalfLife is returned when a configuration carries a half-life
// that is not a positive finite number. It is never clamped.
var ErrInvalidHalfLife = errors.New("half-life must be a positive number of hours")

// Config parameterizes a single active-level computation. A zero At means
// "now". Constructed fresh per call; never persisted.
type Config struct {
	HalfLifeHours float64
	At            time.Time
}

func (c Config) validate() error {
	if c.HalfLifeHours <= 0 || math.IsNaN(c.HalfLifeHours) || math.IsInf(c.HalfLifeHours, 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidHalfLife, c.HalfLifeHours)
	}
	return nil
}

// at resolves the evaluation instant, defaulting to the current wall clock.
func (c Config) at() time.Time {
	if c.At.IsZero() {
		return time.Now()
	}
	return c.At
}

// ActiveLevel returns the total remaining active substance in milligrams at
// the configured instant.
//
// Doses timestamped after the evaluation instant contribute exactly 0 —
// a dose cannot decay before it exists. For a fixed dose set the result is
// monotonically non-increasing as the evaluation instant advances.
func ActiveLevel(doses []dose.Dose, cfg Config) (float64, error) {
	if err := cfg.validate(); err != nil {
		return 0, err
	}
	eval := cfg.at()

	total := 0.0
	for _, d := range doses {
		total += contribution(d, eval, cfg.HalfLifeHours)
	}
	return total, nil
}

// contribution returns one dose's remaining milligrams at eval.
func contribution(d dose.Dose, eval time.Time, halfLifeHours float64) float64 {
	elapsedHours := eval.Sub(d.TakenAt).Hours()
	if elapsedHours < 0 {
		return 0
	}
	return d.Milligrams() * math.Pow(0.5, elapsedHours/halfLifeHours)
}
