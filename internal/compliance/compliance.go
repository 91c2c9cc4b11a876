// Package compliance provides deterministic local logic for compliance
// classification. No LLM calls are made here.
package compliance

import (
	"fmt"

	"github.com/corpvoice/corpvoice/internal/schema"
)

// Classify maps a deviation percentage and a tolerance ceiling to a
// compliance level.
//
// Bands (in order of precedence):
//  1. deviation <= 10 → excellent
//  2. deviation <= 25 → good
//  3. deviation <= ceiling → acceptable
//  4. otherwise → warning
//
// The first two thresholds are absolute regardless of the chosen tolerance;
// only the third band depends on the ceiling. A consequence is that for
// ceilings of 25 or below the acceptable band is unreachable (anything above
// 25 already exceeds the ceiling). That asymmetry is carried over from the
// original classification rules on purpose; see DESIGN.md.
func Classify(deviation float64, ceiling int) schema.ComplianceLevel {
	switch {
	case deviation <= 10:
		return schema.ComplianceExcellent
	case deviation <= 25:
		return schema.ComplianceGood
	case deviation <= float64(ceiling):
		return schema.ComplianceAcceptable
	default:
		return schema.ComplianceWarning
	}
}

// IsCompliant reports whether the deviation stays within the ceiling.
// The boundary is inclusive.
func IsCompliant(deviation float64, ceiling int) bool {
	return deviation <= float64(ceiling)
}

// Message returns the human-readable line shown alongside a classification.
// toleranceName is only used by the warning message, which names the
// tolerance that was exceeded.
func Message(level schema.ComplianceLevel, toleranceName string, ceiling int) string {
	switch level {
	case schema.ComplianceExcellent:
		return "Excellent: Response closely follows organization standards"
	case schema.ComplianceGood:
		return "Good: Response stays within acceptable deviation range"
	case schema.ComplianceAcceptable:
		return "Acceptable: Response meets deviation tolerance requirements"
	default:
		return fmt.Sprintf("Warning: Response exceeds %s tolerance limit (%d%%)", toleranceName, ceiling)
	}
}
