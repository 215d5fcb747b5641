package faraid

import (
	"fmt"
	"strings"
)

// HeirDescriptor groups surviving heirs by relation. The pure calculation
// step needs no identity beyond relation and count.
type HeirDescriptor struct {
	Relation Relation `json:"relation"`
	Count    int      `json:"count"`
}

// Context overrides the household flags normally derived from the heir set.
// Nil fields fall back to the derived value.
type Context struct {
	HasChildren      *bool
	HasParents       *bool
	IsMaleDescendant *bool
}

// Distribution is the outcome of the fixed-share calculation. Shares holds
// the aggregate fraction of the estate per relation; Residuary lists the
// relations entitled to the remainder. A relation may appear in both: the
// father keeps his fixed 1/6 and additionally takes residue when no male
// descendant survives.
type Distribution struct {
	Shares           map[Relation]float64
	Residuary        []Relation
	TotalFixedShares float64
	Description      string
}

// Calculate derives the fixed shares and residuary entitlements for the given
// heirs. Branches are applied in a fixed order and are additive; the output is
// identical for identical input. Degenerate input (no heirs) yields an empty
// distribution, not an error.
func Calculate(heirs []HeirDescriptor, override *Context) Distribution {
	counts := make(map[Relation]int, len(heirs))
	for _, h := range heirs {
		if h.Count <= 0 {
			continue
		}
		counts[h.Relation] += h.Count
	}

	hasChildren := counts[RelationSon] > 0 || counts[RelationDaughter] > 0 ||
		counts[RelationGrandson] > 0 || counts[RelationGranddaughter] > 0
	hasParents := counts[RelationFather] > 0 || counts[RelationMother] > 0
	isMaleDescendant := counts[RelationSon] > 0 || counts[RelationGrandson] > 0
	if override != nil {
		if override.HasChildren != nil {
			hasChildren = *override.HasChildren
		}
		if override.HasParents != nil {
			hasParents = *override.HasParents
		}
		if override.IsMaleDescendant != nil {
			isMaleDescendant = *override.IsMaleDescendant
		}
	}

	dist := Distribution{Shares: make(map[Relation]float64)}
	var notes []string

	addShare := func(rel Relation, share float64, note string) {
		dist.Shares[rel] = share
		dist.TotalFixedShares += share
		notes = append(notes, note)
	}
	addResiduary := func(rel Relation, note string) {
		dist.Residuary = append(dist.Residuary, rel)
		notes = append(notes, note)
	}

	// Spouses.
	if counts[RelationHusband] > 0 {
		if hasChildren {
			addShare(RelationHusband, 1.0/4, "husband receives 1/4 (children present)")
		} else {
			addShare(RelationHusband, 1.0/2, "husband receives 1/2 (no children)")
		}
	}
	if counts[RelationWife] > 0 {
		if hasChildren {
			addShare(RelationWife, 1.0/8, "wife receives 1/8 (children present)")
		} else {
			addShare(RelationWife, 1.0/4, "wife receives 1/4 (no children)")
		}
	}

	// Father keeps his fixed sixth and additionally inherits the residue when
	// no son or grandson survives.
	if counts[RelationFather] > 0 {
		addShare(RelationFather, 1.0/6, "father receives 1/6")
		if !isMaleDescendant {
			addResiduary(RelationFather, "father also takes the residue (no male descendant)")
		}
	}

	// Mother, with the grandmother standing in when no mother survives.
	switch {
	case counts[RelationMother] > 0:
		if hasChildren {
			addShare(RelationMother, 1.0/6, "mother receives 1/6 (children present)")
		} else {
			addShare(RelationMother, 1.0/3, "mother receives 1/3 (no children)")
		}
	case counts[RelationGrandmother] > 0:
		addShare(RelationGrandmother, 1.0/6, "grandmother receives 1/6 (no surviving mother)")
	}

	// Daughters. With sons present both move to the residue, split 2:1 at the
	// apportionment stage.
	sonResiduary := false
	if counts[RelationDaughter] > 0 {
		switch {
		case counts[RelationSon] > 0:
			addResiduary(RelationDaughter, "daughters share the residue with sons at a 2:1 ratio")
			addResiduary(RelationSon, "sons take the residue")
			sonResiduary = true
		case counts[RelationDaughter] == 1:
			addShare(RelationDaughter, 1.0/2, "sole daughter receives 1/2")
		default:
			addShare(RelationDaughter, 2.0/3,
				fmt.Sprintf("%d daughters share 2/3", counts[RelationDaughter]))
		}
	}

	// Granddaughters stand in for a deceased daughter.
	if counts[RelationGranddaughter] > 0 && counts[RelationDaughter] == 0 {
		addShare(RelationGranddaughter, 1.0/6, "granddaughter receives 1/6 (in place of a deceased daughter)")
	}

	if counts[RelationSon] > 0 && !sonResiduary {
		addResiduary(RelationSon, "sons take the residue")
	}

	if counts[RelationGrandson] > 0 && counts[RelationSon] == 0 {
		addResiduary(RelationGrandson, "grandsons take the residue (no surviving son)")
	}

	// Siblings are blocked by parents, children, and the grandfather.
	if counts[RelationSibling] > 0 && !hasParents && !hasChildren && counts[RelationGrandfather] == 0 {
		addResiduary(RelationSibling, "siblings share the residue")
	}

	if len(notes) == 0 {
		notes = append(notes, "no heirs with a prescribed or residuary entitlement")
	}
	dist.Description = strings.Join(notes, "; ")
	return dist
}
