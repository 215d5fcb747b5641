package faraid

// MemberType distinguishes family members holding a platform account from
// those recorded by name only.
type MemberType string

const (
	MemberRegistered    MemberType = "registered"
	MemberNonRegistered MemberType = "non-registered"
)

// Member is the slice of a family record the calculator reads. The full
// record (contact details, ownership) lives in the family package; the
// calculator only needs identity and relation.
type Member struct {
	ID       string
	Type     MemberType
	Name     string
	Relation Relation
}
