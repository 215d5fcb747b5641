package faraid

// ApportionResiduary splits the estate remainder across residuary heirs by
// weighted units: a son counts double a daughter, grandchildren mirror the
// same ratio when standing in for a deceased child, and siblings and
// grandfathers each carry a single unit. The equal weighting of siblings and
// grandfathers is a modelled simplification of classical jurisprudence (no
// full/half-sibling or paternal/maternal distinction).
//
// The result maps member id to fraction of the estate. When no heir carries
// weight, or nothing remains to distribute, the map is empty; that degenerate
// case is for the caller to flag.
func ApportionResiduary(heirs []Member, remaining float64) map[string]float64 {
	hasSon := false
	hasDaughter := false
	for _, h := range heirs {
		switch h.Relation {
		case RelationSon:
			hasSon = true
		case RelationDaughter:
			hasDaughter = true
		}
	}

	weightFor := func(rel Relation) float64 {
		switch rel {
		case RelationSon:
			return 2
		case RelationDaughter:
			return 1
		case RelationGrandson:
			if hasSon {
				return 0
			}
			return 2
		case RelationGranddaughter:
			if hasDaughter {
				return 0
			}
			return 1
		case RelationSibling, RelationGrandfather:
			return 1
		default:
			return 0
		}
	}

	out := make(map[string]float64, len(heirs))

	var totalUnits float64
	for _, h := range heirs {
		totalUnits += weightFor(h.Relation)
	}
	if totalUnits == 0 || remaining <= 0 {
		return out
	}

	perUnit := remaining / totalUnits
	for _, h := range heirs {
		w := weightFor(h.Relation)
		if w == 0 {
			continue
		}
		out[h.ID] = perUnit * w
	}
	return out
}
