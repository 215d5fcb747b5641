package agreement

import (
	"strings"

	"github.com/Atan0707/wemsp-v2-sub000/validation"
)

// statusTransitions is the lifecycle table. Terminal statuses carry an empty
// target list. EXPIRED has no inbound arc here: only the expiry sweep writes
// it, directly from a non-terminal status.
var statusTransitions = map[Status][]Status{
	StatusDraft:             {StatusPendingSignatures, StatusCancelled},
	StatusPendingSignatures: {StatusDraft, StatusPendingWitness, StatusCancelled},
	StatusPendingWitness:    {StatusPendingSignatures, StatusActive, StatusCancelled},
	StatusActive:            {StatusCompleted},
	StatusCompleted:         {},
	StatusCancelled:         {},
	StatusExpired:           {},
}

// AllowedTransitions returns a copy of the legal target statuses for s.
func AllowedTransitions(s Status) []Status {
	allowed := statusTransitions[s]
	out := make([]Status, len(allowed))
	copy(out, allowed)
	return out
}

// IsTerminal reports whether s permits no further transitions.
func IsTerminal(s Status) bool {
	allowed, ok := statusTransitions[s]
	return ok && len(allowed) == 0
}

// SigningState summarises which signatures have been collected so far.
type SigningState struct {
	OwnerHasSigned         bool
	AllBeneficiariesSigned bool
	Witnessed              bool
}

// ValidateTransition checks both the transition table and the signature
// preconditions gating entry into specific statuses. The two checks are
// independent: a transition can be rejected for table membership and a
// missing signature at the same time, and every applicable error is
// collected.
func ValidateTransition(current, target Status, signing SigningState) validation.Result {
	res := validation.New()

	allowed, ok := statusTransitions[current]
	switch {
	case !ok:
		res.AddError("unknown status %q", current)
	case !containsStatus(allowed, target):
		res.AddError("cannot transition from %s to %s (allowed: %s)", current, target, joinStatuses(allowed))
	}

	switch target {
	case StatusPendingSignatures:
		if !signing.OwnerHasSigned {
			res.AddError("owner must sign before beneficiary signatures can be requested")
		}
	case StatusPendingWitness:
		if !signing.AllBeneficiariesSigned {
			res.AddError("all beneficiaries must sign before witness review")
		}
	case StatusActive:
		if !signing.Witnessed {
			res.AddError("an admin witness must verify signatures before activation")
		}
	}

	return res
}

// SignerType identifies who is placing a signature.
type SignerType string

const (
	SignerOwner       SignerType = "owner"
	SignerBeneficiary SignerType = "beneficiary"
	SignerWitness     SignerType = "witness"
)

// SignerContext carries the authenticated facts about the signer. The
// embedding service is responsible for establishing them.
type SignerContext struct {
	IsOwner       bool
	IsBeneficiary bool
	IsAdmin       bool
}

// ValidateSignature checks that the signer is entitled to sign and that the
// agreement is in a status that accepts this signature kind. Violations are
// collected, not short-circuited.
func ValidateSignature(signer SignerType, status Status, ctx SignerContext) validation.Result {
	res := validation.New()

	switch signer {
	case SignerOwner:
		if !ctx.IsOwner {
			res.AddError("only the agreement owner may sign as owner")
		}
		if status != StatusDraft && status != StatusPendingSignatures {
			res.AddError("owner signatures are only accepted while the agreement is DRAFT or PENDING_SIGNATURES")
		}
	case SignerBeneficiary:
		if !ctx.IsBeneficiary {
			res.AddError("only a beneficiary of the agreement may sign as beneficiary")
		}
		if status != StatusPendingSignatures {
			res.AddError("beneficiary signatures are only accepted while the agreement is PENDING_SIGNATURES")
		}
	case SignerWitness:
		if !ctx.IsAdmin {
			res.AddError("witnessing requires an admin account")
		}
		if status != StatusPendingWitness {
			res.AddError("witness verification is only accepted while the agreement is PENDING_WITNESS")
		}
	default:
		res.AddError("unknown signer type %q", signer)
	}

	return res
}

// CanEdit reports whether the user may mutate the agreement: only the owner,
// and only while it is a draft.
func CanEdit(status Status, userID, ownerID string) bool {
	return status == StatusDraft && userID != "" && userID == ownerID
}

// CanCancel reports whether the agreement may still be cancelled.
func CanCancel(status Status) bool {
	switch status {
	case StatusDraft, StatusPendingSignatures, StatusPendingWitness:
		return true
	default:
		return false
	}
}

func containsStatus(list []Status, s Status) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func joinStatuses(list []Status) string {
	if len(list) == 0 {
		return "none"
	}
	parts := make([]string, len(list))
	for i, s := range list {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
