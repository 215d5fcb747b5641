package family

import (
	"time"

	"github.com/Atan0707/wemsp-v2-sub000/faraid"
)

// Member is one entry in a user's family registry. A member with a linked
// user account is "registered"; entries recorded by name only (children,
// relatives without an account) are "non-registered". The distinction decides
// which beneficiary reference an agreement uses.
//
// It mirrors the family_members table and carries no JSON annotations so it
// can be reused by different presentation layers.
type Member struct {
	ID        string
	OwnerID   string
	UserID    *string
	FullName  string
	Relation  faraid.Relation
	CreatedAt time.Time
}

// Registered reports whether the member is linked to a user account.
func (m Member) Registered() bool {
	return m.UserID != nil && *m.UserID != ""
}

// Heir shapes the member for the inheritance calculation.
func (m Member) Heir() faraid.Member {
	t := faraid.MemberNonRegistered
	if m.Registered() {
		t = faraid.MemberRegistered
	}
	return faraid.Member{
		ID:       m.ID,
		Type:     t,
		Name:     m.FullName,
		Relation: m.Relation,
	}
}

// Heirs maps a family listing to calculation input.
func Heirs(members []Member) []faraid.Member {
	out := make([]faraid.Member, 0, len(members))
	for _, m := range members {
		out = append(out, m.Heir())
	}
	return out
}
