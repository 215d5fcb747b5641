package faraid

// Rule is a reference entry in the fixed-share table. A zero Share marks a
// relation that only ever inherits from the residue.
type Rule struct {
	Share       float64
	Description string
}

// ruleTable is the reference table of Quranic entitlements. It is reference
// data for the share validator and UI explanations; the calculator re-derives
// shares contextually because most entitlements depend on which other heirs
// survive (a mother's share, for example, depends on the presence of
// children).
var ruleTable = map[Relation]Rule{
	RelationFather:        {Share: 1.0 / 6, Description: "fixed 1/6, plus the residue when no son or grandson survives"},
	RelationMother:        {Share: 1.0 / 6, Description: "1/6 when children survive, otherwise 1/3"},
	RelationHusband:       {Share: 1.0 / 4, Description: "1/4 when children survive, otherwise 1/2"},
	RelationWife:          {Share: 1.0 / 8, Description: "1/8 when children survive, otherwise 1/4"},
	RelationDaughter:      {Share: 1.0 / 2, Description: "1/2 alone, 2/3 shared among several, residuary alongside sons"},
	RelationGranddaughter: {Share: 1.0 / 6, Description: "1/6 when standing in for a deceased daughter"},
	RelationGrandmother:   {Share: 1.0 / 6, Description: "1/6 when no mother survives"},
	RelationSon:           {Share: 0, Description: "residuary heir, double a daughter's portion"},
	RelationGrandson:      {Share: 0, Description: "residuary heir when no son survives"},
	RelationSibling:       {Share: 0, Description: "residuary heir when not blocked by parents, children or a grandfather"},
	RelationGrandfather:   {Share: 0, Description: "residuary heir"},
	RelationUncle:         {Share: 0, Description: "distant kin, residuary by jurisprudence"},
	RelationAunt:          {Share: 0, Description: "distant kin, residuary by jurisprudence"},
	RelationNephew:        {Share: 0, Description: "distant kin, residuary by jurisprudence"},
	RelationNiece:         {Share: 0, Description: "distant kin, residuary by jurisprudence"},
	RelationCousin:        {Share: 0, Description: "distant kin, residuary by jurisprudence"},
	RelationOther:         {Share: 0, Description: "no prescribed entitlement"},
}

// LookupRule returns the reference entry for a relation.
func LookupRule(r Relation) (Rule, bool) {
	rule, ok := ruleTable[r]
	return rule, ok
}

// HasFixedShare reports whether the relation carries a non-zero prescribed
// share in the reference table.
func HasFixedShare(r Relation) bool {
	return ruleTable[r].Share > 0
}

// eligibleHeirs lists the relations the automatic calculation distributes to.
// Distant kin (uncles, aunts, nephews, nieces, cousins) appear in the rule
// table descriptively but are excluded here: their shares are never computed
// automatically and must be assigned by hand.
var eligibleHeirs = map[Relation]bool{
	RelationFather:        true,
	RelationMother:        true,
	RelationHusband:       true,
	RelationWife:          true,
	RelationDaughter:      true,
	RelationSon:           true,
	RelationGranddaughter: true,
	RelationGrandson:      true,
	RelationGrandmother:   true,
	RelationGrandfather:   true,
	RelationSibling:       true,
}

// IsEligibleHeir reports whether the relation participates in automatic
// distribution.
func IsEligibleHeir(r Relation) bool {
	return eligibleHeirs[r]
}

// FilterEligibleHeirs drops members whose relation is outside the automatic
// distribution set.
func FilterEligibleHeirs(members []Member) []Member {
	out := make([]Member, 0, len(members))
	for _, m := range members {
		if eligibleHeirs[m.Relation] {
			out = append(out, m)
		}
	}
	return out
}
