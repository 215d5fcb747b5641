package faraid

import (
	"math"
	"strings"
	"testing"
)

func TestCalculateAuto_HusbandAndDaughter(t *testing.T) {
	result := CalculateAuto([]Member{
		{ID: "h1", Type: MemberRegistered, Name: "Ahmad", Relation: RelationHusband},
		{ID: "d1", Type: MemberNonRegistered, Name: "Aisyah", Relation: RelationDaughter},
	})

	if len(result.Beneficiaries) != 2 {
		t.Fatalf("expected 2 beneficiaries, got %d", len(result.Beneficiaries))
	}

	byID := make(map[string]BeneficiaryShare, len(result.Beneficiaries))
	for _, b := range result.Beneficiaries {
		byID[b.MemberID] = b
	}

	if got := byID["h1"].SharePercentage; got != 25 {
		t.Errorf("husband percentage = %v, want 25", got)
	}
	if got := byID["h1"].ShareFormatted; got != "1/4 (25.0%)" {
		t.Errorf("husband formatted share = %q", got)
	}
	if got := byID["d1"].SharePercentage; got != 50 {
		t.Errorf("daughter percentage = %v, want 50", got)
	}

	// A quarter of the estate has no residuary claimant in this family.
	if result.HasResiduary {
		t.Error("expected no residuary heirs")
	}
	if result.TotalPercentage != 75 {
		t.Errorf("total percentage = %v, want 75", result.TotalPercentage)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected a warning about the unallocated remainder")
	}
}

func TestCalculateAuto_SonsAndDaughter(t *testing.T) {
	result := CalculateAuto([]Member{
		{ID: "s1", Type: MemberRegistered, Name: "Hassan", Relation: RelationSon},
		{ID: "s2", Type: MemberRegistered, Name: "Husain", Relation: RelationSon},
		{ID: "d1", Type: MemberRegistered, Name: "Fatimah", Relation: RelationDaughter},
	})

	if !result.HasResiduary {
		t.Fatal("sons and daughters should be residuary heirs")
	}
	if len(result.Beneficiaries) != 3 {
		t.Fatalf("expected 3 beneficiaries, got %d", len(result.Beneficiaries))
	}

	byID := make(map[string]BeneficiaryShare, len(result.Beneficiaries))
	for _, b := range result.Beneficiaries {
		byID[b.MemberID] = b
	}
	if byID["s1"].SharePercentage != 40 || byID["s2"].SharePercentage != 40 {
		t.Errorf("son percentages = %v/%v, want 40 each",
			byID["s1"].SharePercentage, byID["s2"].SharePercentage)
	}
	if byID["d1"].SharePercentage != 20 {
		t.Errorf("daughter percentage = %v, want 20", byID["d1"].SharePercentage)
	}
	if result.TotalPercentage != 100 {
		t.Errorf("total percentage = %v, want 100", result.TotalPercentage)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestCalculateAuto_EqualSplitWithinRelation(t *testing.T) {
	result := CalculateAuto([]Member{
		{ID: "w1", Relation: RelationWife, Name: "Khadijah"},
		{ID: "w2", Relation: RelationWife, Name: "Zainab"},
	})

	for _, b := range result.Beneficiaries {
		if b.SharePercentage != 12.5 {
			t.Errorf("wife %s percentage = %v, want 12.5", b.MemberID, b.SharePercentage)
		}
		if !strings.Contains(b.Description, "split equally among 2") {
			t.Errorf("description should note the equal split, got %q", b.Description)
		}
	}
}

func TestCalculateAuto_NoEligibleHeirs(t *testing.T) {
	result := CalculateAuto([]Member{
		{ID: "u1", Relation: RelationUncle},
		{ID: "c1", Relation: RelationCousin},
	})

	if len(result.Beneficiaries) != 0 {
		t.Errorf("expected no beneficiaries, got %v", result.Beneficiaries)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected a warning when no eligible heirs exist")
	}
	if !strings.Contains(result.Warnings[0], "no eligible heirs") {
		t.Errorf("unexpected warning text: %q", result.Warnings[0])
	}
}

func TestCalculateAuto_PercentagesKeepFullPrecision(t *testing.T) {
	// Mother alongside a son: 1/6 fixed does not round to a tidy percentage.
	result := CalculateAuto([]Member{
		{ID: "m1", Relation: RelationMother, Name: "Maryam"},
		{ID: "s1", Relation: RelationSon, Name: "Isa"},
	})

	var mother BeneficiaryShare
	for _, b := range result.Beneficiaries {
		if b.MemberID == "m1" {
			mother = b
		}
	}
	if math.Abs(mother.SharePercentage-100.0/6) > 1e-9 {
		t.Errorf("mother percentage = %v, want full-precision 100/6", mother.SharePercentage)
	}
}
