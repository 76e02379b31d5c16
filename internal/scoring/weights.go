package scoring

import (
	"fmt"
	"math"

	"rosterlens.app/engine/internal/model"
)

// weightTolerance bounds float drift when checking that fractions sum to 1.
const weightTolerance = 1e-9

// ErrInvalidWeights marks a weight configuration with a fraction outside
// [0,1] or fractions that do not sum to 1.0. It is fatal at startup and
// never recovered by fallback.
type ErrInvalidWeights struct {
	Reason string
}

func (e ErrInvalidWeights) Error() string {
	return "invalid scoring weights: " + e.Reason
}

// Weights maps each penalty group to its fraction of the total score.
// Process-wide, set at startup, immutable thereafter.
type Weights struct {
	License    float64
	NPI        float64
	Duplicates float64
	Contact    float64
	Mismatch   float64
}

// DefaultWeights returns the fixed weighting policy: License 0.35,
// NPI 0.25, Duplicates 0.15, Contact 0.15, Mismatch 0.10.
func DefaultWeights() Weights {
	return Weights{
		License:    0.35,
		NPI:        0.25,
		Duplicates: 0.15,
		Contact:    0.15,
		Mismatch:   0.10,
	}
}

// Validate checks that every fraction lies in [0,1] and that the
// fractions sum to 1.0. A negative fraction would let a penalty raise a
// score, so range violations are rejected outright.
func (w Weights) Validate() error {
	var sum float64
	for _, f := range []float64{w.License, w.NPI, w.Duplicates, w.Contact, w.Mismatch} {
		if f < 0 || f > 1 {
			return ErrInvalidWeights{Reason: fmt.Sprintf("fraction %.12f outside [0,1]", f)}
		}
		sum += f
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return ErrInvalidWeights{Reason: fmt.Sprintf("fractions must sum to 1.0, got %.12f", sum)}
	}
	return nil
}

// For returns the fraction assigned to a penalty group.
func (w Weights) For(g model.PenaltyGroup) float64 {
	switch g {
	case model.GroupLicense:
		return w.License
	case model.GroupNPI:
		return w.NPI
	case model.GroupDuplicates:
		return w.Duplicates
	case model.GroupContact:
		return w.Contact
	case model.GroupMismatch:
		return w.Mismatch
	}
	return 0
}
