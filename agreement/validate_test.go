package agreement

import (
	"strings"
	"testing"
	"time"

	"github.com/Atan0707/wemsp-v2-sub000/faraid"
)

func strPtr(s string) *string                    { return &s }
func f64Ptr(f float64) *float64                  { return &f }
func dtPtr(d DistributionType) *DistributionType { return &d }

func TestValidateInput(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return now }
	defer func() { timeNow = time.Now }()

	future := now.AddDate(0, 1, 0)
	later := now.AddDate(1, 0, 0)
	past := now.AddDate(0, -1, 0)

	t.Run("valid", func(t *testing.T) {
		res := ValidateInput(Input{
			Title:            "Family estate distribution",
			DistributionType: dtPtr(DistributionFaraid),
			EffectiveDate:    &future,
			ExpiryDate:       &later,
		})
		if !res.Valid {
			t.Errorf("expected valid input, got %v", res.Errors)
		}
	})

	t.Run("missing title", func(t *testing.T) {
		res := ValidateInput(Input{Title: "   "})
		if res.Valid || !strings.Contains(res.Errors[0], "title is required") {
			t.Errorf("expected title error, got %v", res.Errors)
		}
	})

	t.Run("overlong fields", func(t *testing.T) {
		res := ValidateInput(Input{
			Title:       strings.Repeat("a", 201),
			Description: strPtr(strings.Repeat("b", 1001)),
		})
		if len(res.Errors) != 2 {
			t.Errorf("expected title and description length errors, got %v", res.Errors)
		}
	})

	t.Run("unknown distribution type", func(t *testing.T) {
		res := ValidateInput(Input{Title: "t", DistributionType: dtPtr("SADAQAH")})
		if res.Valid {
			t.Error("expected unknown distribution type to be rejected")
		}
	})

	t.Run("expiry before effective", func(t *testing.T) {
		res := ValidateInput(Input{Title: "t", EffectiveDate: &later, ExpiryDate: &future})
		if res.Valid || !strings.Contains(res.Errors[0], "expiry date") {
			t.Errorf("expected date ordering error, got %v", res.Errors)
		}
	})

	t.Run("past effective date warns", func(t *testing.T) {
		res := ValidateInput(Input{Title: "t", EffectiveDate: &past})
		if !res.Valid {
			t.Errorf("a past effective date must not block, got %v", res.Errors)
		}
		if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "past") {
			t.Errorf("expected a past-date warning, got %v", res.Warnings)
		}
	})
}

func TestValidateBeneficiaries(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		res := ValidateBeneficiaries(nil, DistributionHibah)
		if res.Valid {
			t.Error("empty beneficiary list must be rejected")
		}
	})

	t.Run("member reference XOR", func(t *testing.T) {
		res := ValidateBeneficiaries([]Beneficiary{
			{Relation: faraid.RelationSon, SharePercentage: 50},
			{FamilyMemberID: strPtr("m1"), NonRegisteredFamilyMemberID: strPtr("n1"),
				Relation: faraid.RelationDaughter, SharePercentage: 50},
		}, DistributionHibah)
		if res.Valid {
			t.Fatal("expected reference errors")
		}
		if len(res.Errors) != 2 {
			t.Errorf("expected one error per bad entry, got %v", res.Errors)
		}
		if !strings.Contains(res.Errors[0], "reference is required") {
			t.Errorf("unexpected first error: %q", res.Errors[0])
		}
		if !strings.Contains(res.Errors[1], "mutually exclusive") {
			t.Errorf("unexpected second error: %q", res.Errors[1])
		}
	})

	t.Run("share bounds and sum", func(t *testing.T) {
		res := ValidateBeneficiaries([]Beneficiary{
			{FamilyMemberID: strPtr("m1"), Relation: faraid.RelationSon, SharePercentage: 0},
			{FamilyMemberID: strPtr("m2"), Relation: faraid.RelationDaughter, SharePercentage: 30},
		}, DistributionHibah)
		if res.Valid {
			t.Fatal("expected bounds and sum errors")
		}
		var sawBounds, sawSum bool
		for _, e := range res.Errors {
			if strings.Contains(e, "greater than 0") {
				sawBounds = true
			}
			if strings.Contains(e, "expected 100%") {
				sawSum = true
			}
		}
		if !sawBounds || !sawSum {
			t.Errorf("missing expected errors: %v", res.Errors)
		}
	})

	t.Run("unknown relation", func(t *testing.T) {
		res := ValidateBeneficiaries([]Beneficiary{
			{FamilyMemberID: strPtr("m1"), Relation: "NEIGHBOUR", SharePercentage: 100},
		}, DistributionHibah)
		if res.Valid {
			t.Error("unknown relation must be rejected")
		}
	})

	t.Run("faraid merges rule findings", func(t *testing.T) {
		res := ValidateBeneficiaries([]Beneficiary{
			{FamilyMemberID: strPtr("1"), Relation: faraid.RelationSon, SharePercentage: 50},
			{NonRegisteredFamilyMemberID: strPtr("2"), Relation: faraid.RelationDaughter, SharePercentage: 50},
		}, DistributionFaraid)
		// Shape and sum pass; the rule check flags the hand-entered residuary shares.
		found := false
		for _, w := range res.Warnings {
			if strings.Contains(w, "residuary") {
				found = true
			}
		}
		if !found {
			t.Errorf("expected residuary warnings from the faraid validator, got %v", res.Warnings)
		}
	})

	t.Run("non-faraid skips rule check", func(t *testing.T) {
		res := ValidateBeneficiaries([]Beneficiary{
			{FamilyMemberID: strPtr("1"), Relation: faraid.RelationSon, SharePercentage: 50},
			{NonRegisteredFamilyMemberID: strPtr("2"), Relation: faraid.RelationDaughter, SharePercentage: 50},
		}, DistributionWasiyyah)
		if !res.Valid || len(res.Warnings) != 0 {
			t.Errorf("expected a clean pass for non-faraid distribution, got %v / %v", res.Errors, res.Warnings)
		}
	})
}

func TestValidateAssets(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		if res := ValidateAssets(nil); res.Valid {
			t.Error("empty asset list must be rejected")
		}
	})

	t.Run("duplicate asset", func(t *testing.T) {
		res := ValidateAssets([]AssetAllocation{
			{AssetID: "5"},
			{AssetID: "5"},
		})
		if res.Valid {
			t.Fatal("duplicate asset must be rejected")
		}
		if !strings.Contains(res.Errors[0], "duplicate asset") {
			t.Errorf("unexpected error: %q", res.Errors[0])
		}
	})

	t.Run("bounds", func(t *testing.T) {
		res := ValidateAssets([]AssetAllocation{
			{AssetID: "a", AllocatedValue: f64Ptr(-1)},
			{AssetID: "b", AllocatedPercentage: f64Ptr(101)},
			{AssetID: "", AllocatedPercentage: f64Ptr(50)},
		})
		if len(res.Errors) != 3 {
			t.Errorf("expected three errors, got %v", res.Errors)
		}
	})

	t.Run("valid", func(t *testing.T) {
		res := ValidateAssets([]AssetAllocation{
			{AssetID: "a", AllocatedValue: f64Ptr(120000)},
			{AssetID: "b", AllocatedPercentage: f64Ptr(100)},
		})
		if !res.Valid {
			t.Errorf("expected valid assets, got %v", res.Errors)
		}
	})
}
