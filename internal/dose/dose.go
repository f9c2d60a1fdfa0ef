// Package dose defines the dose record and its unit arithmetic.
//
// All amounts are normalized to milligrams before any summation. The unit
// set is a closed enumeration: adding a unit means extending both Unit and
// the conversion table in ToMilligrams together.
package dose

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Unit is a dose amount unit.
type Unit string

const (
	Milligram Unit = "mg"
	Microgram Unit = "mcg"
	Gram      Unit = "g"
	// IU has no defined linear mass equivalence. Amounts declared in IU are
	// treated as already in the base numeric space — a documented
	// approximation, not a true conversion.
	IU Unit = "IU"
)

// Units lists all valid units, in display order.
var Units = []Unit{Milligram, Microgram, Gram, IU}

// ParseUnit validates a user-supplied unit string against the closed
// enumeration. Accepts "μg"/"ug" as aliases for mcg.
func ParseUnit(s string) (Unit, error) {
	switch strings.TrimSpace(s) {
	case "mg", "MG", "Mg":
		return Milligram, nil
	case "mcg", "ug", "μg", "µg":
		return Microgram, nil
	case "g", "G":
		return Gram, nil
	case "IU", "iu":
		return IU, nil
	}
	return "", fmt.Errorf("unknown unit %q (valid: mg, mcg, g, IU)", s)
}

// ToMilligrams converts an amount in the given unit to milligrams.
// IU passes through unchanged.
func ToMilligrams(amount float64, u Unit) float64 {
	switch u {
	case Gram:
		return amount * 1000
	case Microgram:
		return amount / 1000
	default: // Milligram, IU
		return amount
	}
}

// ValidateAmount rejects dose amounts that are not positive finite numbers.
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("amount must be a finite number")
	}
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %g", amount)
	}
	return nil
}

// Dose is a single recorded dosing event. Immutable once created: the
// collection only ever adds and removes whole records.
type Dose struct {
	ID      string
	Amount  float64
	Unit    Unit
	TakenAt time.Time
}

// Milligrams returns the dose amount normalized to the base unit.
func (d Dose) Milligrams() float64 {
	return ToMilligrams(d.Amount, d.Unit)
}
