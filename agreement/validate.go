package agreement

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Atan0707/wemsp-v2-sub000/faraid"
	"github.com/Atan0707/wemsp-v2-sub000/validation"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
	// beneficiarySumTolerance bounds the accepted drift of the summed
	// beneficiary percentages from 100.
	beneficiarySumTolerance = 0.1
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// Input carries the user-supplied agreement fields for validation.
type Input struct {
	Title            string            `json:"title"`
	Description      *string           `json:"description,omitempty"`
	DistributionType *DistributionType `json:"distribution_type,omitempty"`
	EffectiveDate    *time.Time        `json:"effective_date,omitempty"`
	ExpiryDate       *time.Time        `json:"expiry_date,omitempty"`
}

// ValidateInput checks the agreement's own fields. A past effective date is a
// warning, not an error: backdated agreements are legal but worth flagging.
func ValidateInput(in Input) validation.Result {
	res := validation.New()

	title := strings.TrimSpace(in.Title)
	if title == "" {
		res.AddError("title is required")
	} else if utf8.RuneCountInString(title) > maxTitleLen {
		res.AddError("title exceeds %d characters", maxTitleLen)
	}

	if in.Description != nil && utf8.RuneCountInString(*in.Description) > maxDescriptionLen {
		res.AddError("description exceeds %d characters", maxDescriptionLen)
	}

	if in.DistributionType != nil && !isValidDistributionType(*in.DistributionType) {
		res.AddError("unknown distribution type %q", *in.DistributionType)
	}

	if in.EffectiveDate != nil && in.ExpiryDate != nil && !in.ExpiryDate.After(*in.EffectiveDate) {
		res.AddError("expiry date must be after the effective date")
	}
	if in.EffectiveDate != nil && in.EffectiveDate.Before(timeNow()) {
		res.AddWarning("effective date is in the past")
	}

	return res
}

// ValidateBeneficiaries checks the beneficiary list shape and share totals.
// For FARAID agreements the proposed breakdown is additionally checked
// against the inheritance rules, with those findings merged in.
func ValidateBeneficiaries(list []Beneficiary, dt DistributionType) validation.Result {
	res := validation.New()

	if len(list) == 0 {
		res.AddError("at least one beneficiary is required")
		return res
	}

	var sum float64
	for i, b := range list {
		n := i + 1

		hasRegistered := b.FamilyMemberID != nil && *b.FamilyMemberID != ""
		hasNonRegistered := b.NonRegisteredFamilyMemberID != nil && *b.NonRegisteredFamilyMemberID != ""
		switch {
		case !hasRegistered && !hasNonRegistered:
			res.AddError("beneficiary %d: a family member reference is required", n)
		case hasRegistered && hasNonRegistered:
			res.AddError("beneficiary %d: registered and non-registered member references are mutually exclusive", n)
		}

		if b.Relation == "" {
			res.AddError("beneficiary %d: relation is required", n)
		} else if !faraid.IsValidRelation(b.Relation) {
			res.AddError("beneficiary %d: unknown relation %q", n, b.Relation)
		}

		if b.SharePercentage <= 0 || b.SharePercentage > 100 {
			res.AddError("beneficiary %d: share percentage must be greater than 0 and at most 100", n)
		}
		sum += b.SharePercentage
	}

	if math.Abs(sum-100) > beneficiarySumTolerance {
		res.AddError("beneficiary shares total %.2f%%, expected 100%%", sum)
	}

	if dt == DistributionFaraid {
		proposed := make([]faraid.ProposedShare, 0, len(list))
		for _, b := range list {
			proposed = append(proposed, faraid.ProposedShare{
				Relation:        b.Relation,
				SharePercentage: b.SharePercentage,
			})
		}
		res.Merge(faraid.ValidateShares(proposed))
	}

	return res
}

// ValidateAssets checks the asset allocations. Each asset may be used at most
// once per agreement.
func ValidateAssets(list []AssetAllocation) validation.Result {
	res := validation.New()

	if len(list) == 0 {
		res.AddError("at least one asset is required")
		return res
	}

	seen := make(map[string]bool, len(list))
	for i, a := range list {
		n := i + 1

		switch {
		case a.AssetID == "":
			res.AddError("asset %d: asset id is required", n)
		case seen[a.AssetID]:
			res.AddError("duplicate asset %s: each asset may appear once per agreement", a.AssetID)
		default:
			seen[a.AssetID] = true
		}

		if a.AllocatedValue != nil && *a.AllocatedValue < 0 {
			res.AddError("asset %d: allocated value must not be negative", n)
		}
		if a.AllocatedPercentage != nil && (*a.AllocatedPercentage < 0 || *a.AllocatedPercentage > 100) {
			res.AddError("asset %d: allocated percentage must be between 0 and 100", n)
		}
	}

	return res
}

// ValidationError carries a collected validation result across the service
// boundary so callers can render every finding.
type ValidationError struct {
	Result validation.Result
}

func (e *ValidationError) Error() string {
	return "agreement: validation failed: " + strings.Join(e.Result.Errors, "; ")
}
