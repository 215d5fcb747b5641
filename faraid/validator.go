package faraid

import (
	"math"

	"github.com/Atan0707/wemsp-v2-sub000/validation"
)

const (
	// shareSumTolerance bounds the accepted drift of the summed percentages
	// from 100 when a breakdown is entered by hand.
	shareSumTolerance = 0.01
	// fixedShareTolerance bounds how far a hand-entered percentage may sit
	// from the prescribed fixed share. Residuary-driven fractional drift makes
	// an exact match unreasonable to demand.
	fixedShareTolerance = 1.0
)

// ProposedShare is one row of a manually entered breakdown.
type ProposedShare struct {
	Relation        Relation `json:"relation"`
	SharePercentage float64  `json:"share_percentage"`
}

// ValidateShares checks a hand-entered share breakdown against the rules.
// It re-derives the household context from the proposed relations themselves,
// then compares each fixed-share relation's percentage against the prescribed
// one. A relation entitled to the residue but given a flat percentage draws a
// warning: the value should have been computed, not typed in. Used to guard
// admin overrides of an auto-computed distribution.
func ValidateShares(proposed []ProposedShare) validation.Result {
	res := validation.New()

	var sum float64
	counts := make(map[Relation]int, len(proposed))
	for _, p := range proposed {
		sum += p.SharePercentage
		counts[p.Relation]++
	}
	if math.Abs(sum-100) > shareSumTolerance {
		res.AddError("shares total %.2f%%, expected 100%%", sum)
	}

	descriptors := make([]HeirDescriptor, 0, len(counts))
	for _, rel := range relationOrder {
		if n := counts[rel]; n > 0 {
			descriptors = append(descriptors, HeirDescriptor{Relation: rel, Count: n})
		}
	}
	expected := Calculate(descriptors, nil)

	residuarySet := make(map[Relation]bool, len(expected.Residuary))
	for _, rel := range expected.Residuary {
		residuarySet[rel] = true
	}

	for _, p := range proposed {
		if aggregate := expected.Shares[p.Relation]; aggregate > 0 {
			expectedPct := aggregate / float64(counts[p.Relation]) * 100
			if math.Abs(p.SharePercentage-expectedPct) > fixedShareTolerance {
				res.AddError("%s share %.2f%% deviates from the prescribed %.2f%%",
					p.Relation, p.SharePercentage, expectedPct)
			}
		}
		if residuarySet[p.Relation] {
			res.AddWarning("%s share is residuary and should be computed from the estate remainder, not entered directly",
				p.Relation)
		}
	}
	return res
}
