package agreement

import (
	"github.com/Atan0707/wemsp-v2-sub000/faraid"
)

// ProposeFaraidDistribution runs the automatic Faraid calculation over the
// owner's family and shapes the outcome as beneficiary drafts for a FARAID
// agreement. Should a member ever earn both a fixed and a residuary portion,
// the two are merged into a single beneficiary with the summed percentage.
func ProposeFaraidDistribution(members []faraid.Member) ([]Beneficiary, faraid.AutoResult) {
	result := faraid.CalculateAuto(members)

	index := make(map[string]int, len(result.Beneficiaries))
	drafts := make([]Beneficiary, 0, len(result.Beneficiaries))

	for _, share := range result.Beneficiaries {
		if i, ok := index[share.MemberID]; ok {
			drafts[i].SharePercentage += share.SharePercentage
			continue
		}

		memberID := share.MemberID
		desc := share.Description
		draft := Beneficiary{
			Relation:         share.Relation,
			SharePercentage:  share.SharePercentage,
			ShareDescription: &desc,
		}
		if share.MemberType == faraid.MemberRegistered {
			draft.FamilyMemberID = &memberID
		} else {
			draft.NonRegisteredFamilyMemberID = &memberID
		}

		index[share.MemberID] = len(drafts)
		drafts = append(drafts, draft)
	}

	return drafts, result
}
