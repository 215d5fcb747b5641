package faraid

import (
	"strings"
	"testing"
)

func TestValidateShares_ResiduaryEnteredAsFlat(t *testing.T) {
	res := ValidateShares([]ProposedShare{
		{Relation: RelationSon, SharePercentage: 50},
		{Relation: RelationDaughter, SharePercentage: 50},
	})

	// Warnings flag the hand-entered residuary shares but never block.
	if !res.Valid {
		t.Errorf("expected warnings only, got errors: %v", res.Errors)
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("expected warnings for both residuary relations, got %v", res.Warnings)
	}
	for _, w := range res.Warnings {
		if !strings.Contains(w, "residuary") {
			t.Errorf("warning should mention the residuary rule, got %q", w)
		}
	}
}

func TestValidateShares_SumMismatch(t *testing.T) {
	res := ValidateShares([]ProposedShare{
		{Relation: RelationSon, SharePercentage: 40},
		{Relation: RelationDaughter, SharePercentage: 50},
	})
	if res.Valid {
		t.Fatal("expected a sum error")
	}
	if len(res.Errors) == 0 || !strings.Contains(res.Errors[0], "expected 100%") {
		t.Errorf("unexpected errors: %v", res.Errors)
	}
}

func TestValidateShares_FixedShareDeviation(t *testing.T) {
	res := ValidateShares([]ProposedShare{
		{Relation: RelationHusband, SharePercentage: 40},
		{Relation: RelationDaughter, SharePercentage: 60},
	})
	if res.Valid {
		t.Fatal("expected fixed-share deviation errors")
	}
	// Husband should hold 25% (children present) and the sole daughter 50%.
	if len(res.Errors) != 2 {
		t.Errorf("expected 2 deviation errors, got %v", res.Errors)
	}
	for _, e := range res.Errors {
		if !strings.Contains(e, "deviates from the prescribed") {
			t.Errorf("unexpected error text: %q", e)
		}
	}
}

func TestValidateShares_ResiduaryOnlyBreakdownPasses(t *testing.T) {
	res := ValidateShares([]ProposedShare{
		{Relation: RelationSon, SharePercentage: 40},
		{Relation: RelationSon, SharePercentage: 40},
		{Relation: RelationDaughter, SharePercentage: 20},
	})
	if !res.Valid {
		t.Errorf("expected a passing result, got errors: %v", res.Errors)
	}
	if len(res.Warnings) != 3 {
		t.Errorf("expected a residuary warning per entry, got %v", res.Warnings)
	}
}

func TestValidateShares_WithinToleranceAccepted(t *testing.T) {
	// Fractional drift of less than a percentage point on a fixed share is
	// accepted; residuary rounding makes exact matches unreasonable.
	res := ValidateShares([]ProposedShare{
		{Relation: RelationHusband, SharePercentage: 24.5},
		{Relation: RelationDaughter, SharePercentage: 50.5},
		{Relation: RelationSon, SharePercentage: 25},
	})
	for _, e := range res.Errors {
		if strings.Contains(e, "deviates") {
			t.Errorf("deviation within tolerance should pass, got %q", e)
		}
	}
}
