package faraid

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

// sumShares adds the share map in the calculator's own insertion order so the
// comparison against TotalFixedShares is exact, not tolerance-based.
func sumShares(d Distribution) float64 {
	var total float64
	for _, rel := range relationOrder {
		if share, ok := d.Shares[rel]; ok {
			total += share
		}
	}
	return total
}

func TestCalculate_HusbandAndDaughter(t *testing.T) {
	dist := Calculate([]HeirDescriptor{
		{Relation: RelationHusband, Count: 1},
		{Relation: RelationDaughter, Count: 1},
	}, nil)

	if got := dist.Shares[RelationHusband]; got != 1.0/4 {
		t.Errorf("husband share = %v, want 1/4 (children present)", got)
	}
	if got := dist.Shares[RelationDaughter]; got != 1.0/2 {
		t.Errorf("daughter share = %v, want 1/2 (sole daughter)", got)
	}
	if dist.TotalFixedShares != 0.75 {
		t.Errorf("total fixed shares = %v, want 0.75", dist.TotalFixedShares)
	}
	if len(dist.Residuary) != 0 {
		t.Errorf("expected no residuary heirs, got %v", dist.Residuary)
	}
}

func TestCalculate_SonsAndDaughterAreResiduary(t *testing.T) {
	dist := Calculate([]HeirDescriptor{
		{Relation: RelationSon, Count: 2},
		{Relation: RelationDaughter, Count: 1},
	}, nil)

	if len(dist.Shares) != 0 {
		t.Errorf("expected no fixed shares, got %v", dist.Shares)
	}
	if dist.TotalFixedShares != 0 {
		t.Errorf("total fixed shares = %v, want 0", dist.TotalFixedShares)
	}
	want := []Relation{RelationDaughter, RelationSon}
	if !reflect.DeepEqual(dist.Residuary, want) {
		t.Errorf("residuary = %v, want %v", dist.Residuary, want)
	}
}

func TestCalculate_MotherShareDependsOnChildren(t *testing.T) {
	withChildren := Calculate([]HeirDescriptor{
		{Relation: RelationMother, Count: 1},
		{Relation: RelationSon, Count: 1},
	}, nil)
	if got := withChildren.Shares[RelationMother]; got != 1.0/6 {
		t.Errorf("mother share with children = %v, want 1/6", got)
	}

	withoutChildren := Calculate([]HeirDescriptor{
		{Relation: RelationMother, Count: 1},
		{Relation: RelationHusband, Count: 1},
	}, nil)
	if got := withoutChildren.Shares[RelationMother]; got != 1.0/3 {
		t.Errorf("mother share without children = %v, want 1/3", got)
	}
	if got := withoutChildren.Shares[RelationHusband]; got != 1.0/2 {
		t.Errorf("husband share without children = %v, want 1/2", got)
	}
}

func TestCalculate_GrandmotherStandsInForMother(t *testing.T) {
	dist := Calculate([]HeirDescriptor{
		{Relation: RelationGrandmother, Count: 1},
		{Relation: RelationSon, Count: 1},
	}, nil)
	if got := dist.Shares[RelationGrandmother]; got != 1.0/6 {
		t.Errorf("grandmother share = %v, want 1/6", got)
	}

	// With a surviving mother the grandmother receives nothing.
	both := Calculate([]HeirDescriptor{
		{Relation: RelationMother, Count: 1},
		{Relation: RelationGrandmother, Count: 1},
	}, nil)
	if _, ok := both.Shares[RelationGrandmother]; ok {
		t.Error("grandmother should be blocked by a surviving mother")
	}
}

func TestCalculate_FatherResidue(t *testing.T) {
	// A son blocks the father's residuary claim but not his fixed sixth.
	withSon := Calculate([]HeirDescriptor{
		{Relation: RelationFather, Count: 1},
		{Relation: RelationSon, Count: 1},
	}, nil)
	if got := withSon.Shares[RelationFather]; got != 1.0/6 {
		t.Errorf("father share = %v, want 1/6", got)
	}
	for _, rel := range withSon.Residuary {
		if rel == RelationFather {
			t.Error("father should not be residuary while a son survives")
		}
	}

	withDaughter := Calculate([]HeirDescriptor{
		{Relation: RelationFather, Count: 1},
		{Relation: RelationDaughter, Count: 1},
	}, nil)
	found := false
	for _, rel := range withDaughter.Residuary {
		if rel == RelationFather {
			found = true
		}
	}
	if !found {
		t.Error("father should take residue when no male descendant survives")
	}
	if got := withDaughter.Shares[RelationFather]; got != 1.0/6 {
		t.Errorf("father keeps his fixed share alongside the residue, got %v", got)
	}
}

func TestCalculate_MultipleDaughtersShareTwoThirds(t *testing.T) {
	dist := Calculate([]HeirDescriptor{{Relation: RelationDaughter, Count: 3}}, nil)
	if got := dist.Shares[RelationDaughter]; got != 2.0/3 {
		t.Errorf("three daughters share = %v, want 2/3", got)
	}
}

func TestCalculate_GranddaughterBehindDaughter(t *testing.T) {
	alone := Calculate([]HeirDescriptor{{Relation: RelationGranddaughter, Count: 1}}, nil)
	if got := alone.Shares[RelationGranddaughter]; got != 1.0/6 {
		t.Errorf("granddaughter share = %v, want 1/6", got)
	}

	blocked := Calculate([]HeirDescriptor{
		{Relation: RelationGranddaughter, Count: 1},
		{Relation: RelationDaughter, Count: 1},
	}, nil)
	if _, ok := blocked.Shares[RelationGranddaughter]; ok {
		t.Error("granddaughter should be blocked by a surviving daughter")
	}
}

func TestCalculate_SiblingsBlockedByCloserHeirs(t *testing.T) {
	hasResiduarySibling := func(d Distribution) bool {
		for _, rel := range d.Residuary {
			if rel == RelationSibling {
				return true
			}
		}
		return false
	}

	alone := Calculate([]HeirDescriptor{{Relation: RelationSibling, Count: 2}}, nil)
	if !hasResiduarySibling(alone) {
		t.Error("siblings alone should share the residue")
	}

	blockers := [][]HeirDescriptor{
		{{Relation: RelationSibling, Count: 1}, {Relation: RelationFather, Count: 1}},
		{{Relation: RelationSibling, Count: 1}, {Relation: RelationDaughter, Count: 1}},
		{{Relation: RelationSibling, Count: 1}, {Relation: RelationGrandfather, Count: 1}},
	}
	for i, heirs := range blockers {
		if hasResiduarySibling(Calculate(heirs, nil)) {
			t.Errorf("case %d: sibling should be blocked", i)
		}
	}
}

func TestCalculate_ContextOverride(t *testing.T) {
	// A lone wife normally takes 1/4; asserting children exist drops her to 1/8.
	dist := Calculate([]HeirDescriptor{{Relation: RelationWife, Count: 1}},
		&Context{HasChildren: boolPtr(true)})
	if got := dist.Shares[RelationWife]; got != 1.0/8 {
		t.Errorf("wife share with overridden children flag = %v, want 1/8", got)
	}
}

func TestCalculate_NoHeirs(t *testing.T) {
	dist := Calculate(nil, nil)
	if len(dist.Shares) != 0 || len(dist.Residuary) != 0 || dist.TotalFixedShares != 0 {
		t.Errorf("expected empty distribution, got %+v", dist)
	}
	if !strings.Contains(dist.Description, "no heirs") {
		t.Errorf("description should note the absence of heirs, got %q", dist.Description)
	}
}

func TestCalculate_TotalMatchesShareSum(t *testing.T) {
	cases := [][]HeirDescriptor{
		{{Relation: RelationHusband, Count: 1}, {Relation: RelationDaughter, Count: 1}},
		{{Relation: RelationWife, Count: 1}, {Relation: RelationFather, Count: 1}, {Relation: RelationMother, Count: 1}, {Relation: RelationSon, Count: 2}},
		{{Relation: RelationGrandmother, Count: 1}, {Relation: RelationGranddaughter, Count: 2}},
	}
	for i, heirs := range cases {
		dist := Calculate(heirs, nil)
		if got := sumShares(dist); got != dist.TotalFixedShares {
			t.Errorf("case %d: share sum %v != TotalFixedShares %v", i, got, dist.TotalFixedShares)
		}
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	heirs := []HeirDescriptor{
		{Relation: RelationWife, Count: 1},
		{Relation: RelationFather, Count: 1},
		{Relation: RelationMother, Count: 1},
		{Relation: RelationSon, Count: 1},
		{Relation: RelationDaughter, Count: 2},
	}
	first := Calculate(heirs, nil)
	second := Calculate(heirs, nil)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical input produced different output:\n%+v\n%+v", first, second)
	}
	if math.Abs(first.TotalFixedShares-second.TotalFixedShares) != 0 {
		t.Error("totals differ between identical runs")
	}
}
