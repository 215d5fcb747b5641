// Package faraid implements the Islamic fixed-share inheritance calculation:
// the Quranic rule table, the distribution calculator with residuary
// apportionment, and the validator used when an admin overrides an
// auto-computed breakdown. Everything in this package is pure and free of
// side effects; callers may invoke it concurrently without locking.
package faraid

// Relation identifies how a surviving family member relates to the deceased.
type Relation string

const (
	RelationHusband       Relation = "HUSBAND"
	RelationWife          Relation = "WIFE"
	RelationFather        Relation = "FATHER"
	RelationMother        Relation = "MOTHER"
	RelationGrandfather   Relation = "GRANDFATHER"
	RelationGrandmother   Relation = "GRANDMOTHER"
	RelationSon           Relation = "SON"
	RelationDaughter      Relation = "DAUGHTER"
	RelationGrandson      Relation = "GRANDSON"
	RelationGranddaughter Relation = "GRANDDAUGHTER"
	RelationSibling       Relation = "SIBLING"
	RelationUncle         Relation = "UNCLE"
	RelationAunt          Relation = "AUNT"
	RelationNephew        Relation = "NEPHEW"
	RelationNiece         Relation = "NIECE"
	RelationCousin        Relation = "COUSIN"
	RelationOther         Relation = "OTHER"
)

// relationOrder fixes the iteration order everywhere the package walks a
// relation-keyed map, keeping the output deterministic for identical input.
var relationOrder = []Relation{
	RelationHusband,
	RelationWife,
	RelationFather,
	RelationMother,
	RelationGrandfather,
	RelationGrandmother,
	RelationSon,
	RelationDaughter,
	RelationGrandson,
	RelationGranddaughter,
	RelationSibling,
	RelationUncle,
	RelationAunt,
	RelationNephew,
	RelationNiece,
	RelationCousin,
	RelationOther,
}

// IsValidRelation reports whether r is one of the known relation kinds.
func IsValidRelation(r Relation) bool {
	for _, known := range relationOrder {
		if r == known {
			return true
		}
	}
	return false
}
