package faraid

import (
	"fmt"
	"math"
)

// roundingTolerance is the accepted drift between the summed beneficiary
// percentages and 100. Larger deviations are flagged as warnings, never
// errors: an unclaimed remainder (no residuary heir) is a legitimate outcome
// the caller must decide how to handle.
const roundingTolerance = 1.0

// BeneficiaryShare is one concrete heir's computed portion of the estate.
type BeneficiaryShare struct {
	MemberID        string     `json:"member_id"`
	MemberType      MemberType `json:"member_type"`
	Name            string     `json:"name"`
	Relation        Relation   `json:"relation"`
	SharePercentage float64    `json:"share_percentage"`
	ShareFormatted  string     `json:"share_formatted"`
	Description     string     `json:"description"`
}

// AutoResult is the outcome of the automatic distribution over a concrete
// family. TotalPercentage is rounded to one decimal for display; the
// per-beneficiary percentages keep full precision so downstream sum
// invariants hold.
type AutoResult struct {
	Beneficiaries   []BeneficiaryShare `json:"beneficiaries"`
	TotalPercentage float64            `json:"total_percentage"`
	Description     string             `json:"description"`
	HasResiduary    bool               `json:"has_residuary"`
	Warnings        []string           `json:"warnings"`
}

// CalculateAuto filters the family to eligible heirs, computes the fixed
// shares, splits each relation's aggregate equally among its members, and
// apportions the remainder across residuary heirs. A family with no eligible
// heirs yields an empty result with a warning.
func CalculateAuto(members []Member) AutoResult {
	eligible := FilterEligibleHeirs(members)
	if len(eligible) == 0 {
		return AutoResult{
			Description: "no eligible heirs present",
			Warnings:    []string{"no eligible heirs found; shares must be assigned manually"},
		}
	}

	byRelation := make(map[Relation][]Member, len(eligible))
	for _, m := range eligible {
		byRelation[m.Relation] = append(byRelation[m.Relation], m)
	}

	descriptors := make([]HeirDescriptor, 0, len(byRelation))
	for _, rel := range relationOrder {
		if n := len(byRelation[rel]); n > 0 {
			descriptors = append(descriptors, HeirDescriptor{Relation: rel, Count: n})
		}
	}

	dist := Calculate(descriptors, nil)

	out := AutoResult{Description: dist.Description}

	// Fixed shares, split equally inside each relation group.
	for _, rel := range relationOrder {
		aggregate, ok := dist.Shares[rel]
		if !ok {
			continue
		}
		group := byRelation[rel]
		if len(group) == 0 {
			continue
		}
		each := aggregate / float64(len(group))
		desc := fmt.Sprintf("fixed share %s", FormatFraction(aggregate))
		if len(group) > 1 {
			desc = fmt.Sprintf("%s split equally among %d", desc, len(group))
		}
		for _, m := range group {
			out.Beneficiaries = append(out.Beneficiaries, BeneficiaryShare{
				MemberID:        m.ID,
				MemberType:      m.Type,
				Name:            m.Name,
				Relation:        rel,
				SharePercentage: each * 100,
				ShareFormatted:  FormatShare(each),
				Description:     desc,
			})
		}
	}

	// Residuary remainder.
	residuarySet := make(map[Relation]bool, len(dist.Residuary))
	for _, rel := range dist.Residuary {
		residuarySet[rel] = true
	}
	var residuaryHeirs []Member
	for _, rel := range relationOrder {
		if residuarySet[rel] {
			residuaryHeirs = append(residuaryHeirs, byRelation[rel]...)
		}
	}
	out.HasResiduary = len(residuaryHeirs) > 0

	if len(residuaryHeirs) > 0 {
		split := ApportionResiduary(residuaryHeirs, 1-dist.TotalFixedShares)
		for _, m := range residuaryHeirs {
			share, ok := split[m.ID]
			if !ok {
				continue
			}
			out.Beneficiaries = append(out.Beneficiaries, BeneficiaryShare{
				MemberID:        m.ID,
				MemberType:      m.Type,
				Name:            m.Name,
				Relation:        m.Relation,
				SharePercentage: share * 100,
				ShareFormatted:  FormatShare(share),
				Description:     "residuary share of the estate remainder",
			})
		}
	}

	var total float64
	for _, b := range out.Beneficiaries {
		total += b.SharePercentage
	}
	if math.Abs(total-100) > roundingTolerance {
		out.Warnings = append(out.Warnings,
			fmt.Sprintf("allocated shares total %.2f%%, deviating from 100%% beyond rounding tolerance", total))
	}
	out.TotalPercentage = math.Round(total*10) / 10
	return out
}
