// Package agreement implements the asset-distribution agreement lifecycle:
// input validation, the status state machine with its signing preconditions,
// and the transactional services that persist agreements, signatures,
// timeline events and outbox messages.
package agreement

import (
	"time"

	"github.com/Atan0707/wemsp-v2-sub000/faraid"
)

// Status is the lifecycle state of an agreement.
type Status string

const (
	StatusDraft             Status = "DRAFT"
	StatusPendingSignatures Status = "PENDING_SIGNATURES"
	StatusPendingWitness    Status = "PENDING_WITNESS"
	StatusActive            Status = "ACTIVE"
	StatusCompleted         Status = "COMPLETED"
	StatusCancelled         Status = "CANCELLED"
	StatusExpired           Status = "EXPIRED"
)

// DistributionType names the Islamic instrument governing the distribution.
type DistributionType string

const (
	DistributionFaraid   DistributionType = "FARAID"
	DistributionHibah    DistributionType = "HIBAH"
	DistributionWasiyyah DistributionType = "WASIYYAH"
	DistributionWakaf    DistributionType = "WAKAF"
)

func isValidDistributionType(dt DistributionType) bool {
	switch dt {
	case DistributionFaraid, DistributionHibah, DistributionWasiyyah, DistributionWakaf:
		return true
	default:
		return false
	}
}

// Beneficiary assigns a share of the estate to a family member. Exactly one
// of the two member references must be set: a registered member holds a
// platform account, a non-registered one is recorded by name only.
type Beneficiary struct {
	ID                          string          `json:"id,omitempty"`
	FamilyMemberID              *string         `json:"family_member_id,omitempty"`
	NonRegisteredFamilyMemberID *string         `json:"non_registered_family_member_id,omitempty"`
	Relation                    faraid.Relation `json:"relation"`
	SharePercentage             float64         `json:"share_percentage"`
	ShareDescription            *string         `json:"share_description,omitempty"`
}

// AssetAllocation ties an asset to the agreement. An asset may appear at most
// once per agreement.
type AssetAllocation struct {
	AssetID             string   `json:"asset_id"`
	AllocatedValue      *float64 `json:"allocated_value,omitempty"`
	AllocatedPercentage *float64 `json:"allocated_percentage,omitempty"`
}

// Agreement is the domain representation of an asset-distribution agreement.
// It mirrors the agreements table and should not include JSON annotations so
// it can be reused by different presentation layers.
type Agreement struct {
	ID               string
	OwnerID          string
	Title            string
	Description      *string
	DistributionType DistributionType
	Status           Status
	EffectiveDate    *time.Time
	ExpiryDate       *time.Time
	Beneficiaries    []Beneficiary
	Assets           []AssetAllocation
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
