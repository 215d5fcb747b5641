package agreement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

var (
	// ErrInvalidTransition wraps the collected state-machine errors when a
	// requested status change is rejected.
	ErrInvalidTransition = errors.New("agreement: invalid status transition")
	// ErrSignatureRejected wraps the collected errors when a signature is not
	// accepted in the agreement's current status.
	ErrSignatureRejected = errors.New("agreement: signature rejected")
)

// TxBeginner abstracts pgxpool.Pool for testability.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// LifecycleRepository defines the data access required by the lifecycle
// service.
type LifecycleRepository interface {
	GetStatusForUpdate(ctx context.Context, tx pgx.Tx, agreementID string) (StatusRow, error)
	SigningState(ctx context.Context, tx pgx.Tx, agreementID string) (SigningState, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, agreementID string, next Status, actorID string) error
	InsertSignature(ctx context.Context, tx pgx.Tx, params SignatureParams) error
	AppendTimeline(ctx context.Context, tx pgx.Tx, agreementID, eventType, actorID string, payload map[string]any) error
	EnqueueOutbox(ctx context.Context, tx pgx.Tx, topic string, payload map[string]any) error
	ExpireOverdue(ctx context.Context, tx pgx.Tx, now time.Time) ([]string, error)
}

// Service drives the agreement lifecycle. Every status change and signature
// is validated against the in-process state machine, then persisted together
// with its timeline event and outbox message in one transaction. The row lock
// taken by GetStatusForUpdate serialises concurrent changes to the same
// agreement.
type Service struct {
	pool TxBeginner
	repo LifecycleRepository
	now  func() time.Time
}

func NewService(pool TxBeginner, repo LifecycleRepository) *Service {
	if repo == nil {
		repo = NewRepository()
	}
	return &Service{
		pool: pool,
		repo: repo,
		now:  time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// TransitionParams identifies a requested status change.
type TransitionParams struct {
	AgreementID string
	ActorID     string
	Target      Status
}

// Transition moves the agreement to the target status if the state machine
// and the collected signatures permit it.
func (s *Service) Transition(ctx context.Context, params TransitionParams) error {
	if params.AgreementID == "" {
		return fmt.Errorf("agreement: missing agreement id")
	}
	if params.Target == "" {
		return fmt.Errorf("agreement: missing target status")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("agreement: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row, err := s.repo.GetStatusForUpdate(ctx, tx, params.AgreementID)
	if err != nil {
		return err
	}
	signing, err := s.repo.SigningState(ctx, tx, params.AgreementID)
	if err != nil {
		return err
	}

	if res := ValidateTransition(row.Status, params.Target, signing); !res.Valid {
		return fmt.Errorf("%w: %s", ErrInvalidTransition, strings.Join(res.Errors, "; "))
	}

	if err := s.repo.UpdateStatus(ctx, tx, params.AgreementID, params.Target, params.ActorID); err != nil {
		return err
	}

	payload := map[string]any{
		"previous_status": row.Status,
		"next_status":     params.Target,
	}
	if err := s.repo.AppendTimeline(ctx, tx, params.AgreementID, "AGREEMENT_STATUS_CHANGED", params.ActorID, payload); err != nil {
		return err
	}

	outboxPayload := map[string]any{
		"agreement_id": params.AgreementID,
		"previous":     row.Status,
		"next":         params.Target,
	}
	if err := s.repo.EnqueueOutbox(ctx, tx, "agreement.status_changed", outboxPayload); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("agreement: commit transition: %w", err)
	}
	return nil
}

// SignParams identifies a signature request. BeneficiaryID is required for
// beneficiary signatures; IsAdmin reflects the authenticated role of the
// signer and is required for witnessing.
type SignParams struct {
	AgreementID   string
	SignerID      string
	SignerType    SignerType
	BeneficiaryID string
	IsAdmin       bool
}

// Sign records a signature after checking the signer's entitlement against
// the agreement's current status. Re-signing is idempotent: a duplicate is
// rolled back and reported as success.
func (s *Service) Sign(ctx context.Context, params SignParams) error {
	if params.AgreementID == "" {
		return fmt.Errorf("agreement: missing agreement id")
	}
	if params.SignerType == SignerBeneficiary && params.BeneficiaryID == "" {
		return fmt.Errorf("agreement: missing beneficiary id")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("agreement: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row, err := s.repo.GetStatusForUpdate(ctx, tx, params.AgreementID)
	if err != nil {
		return err
	}

	signerCtx := SignerContext{
		IsOwner:       params.SignerID != "" && params.SignerID == row.OwnerID,
		IsBeneficiary: params.BeneficiaryID != "",
		IsAdmin:       params.IsAdmin,
	}
	if res := ValidateSignature(params.SignerType, row.Status, signerCtx); !res.Valid {
		return fmt.Errorf("%w: %s", ErrSignatureRejected, strings.Join(res.Errors, "; "))
	}

	err = s.repo.InsertSignature(ctx, tx, SignatureParams{
		AgreementID:   params.AgreementID,
		SignerType:    params.SignerType,
		SignerUserID:  params.SignerID,
		BeneficiaryID: params.BeneficiaryID,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateSignature) {
			return nil
		}
		return err
	}

	payload := map[string]any{
		"signer_type": params.SignerType,
	}
	if params.BeneficiaryID != "" {
		payload["beneficiary_id"] = params.BeneficiaryID
	}
	if err := s.repo.AppendTimeline(ctx, tx, params.AgreementID, "AGREEMENT_SIGNED", params.SignerID, payload); err != nil {
		return err
	}

	outboxPayload := map[string]any{
		"agreement_id": params.AgreementID,
		"signer_type":  params.SignerType,
	}
	if err := s.repo.EnqueueOutbox(ctx, tx, "agreement.signed", outboxPayload); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("agreement: commit signature: %w", err)
	}
	return nil
}

// ExpireOverdue sweeps agreements past their expiry date into EXPIRED and
// returns how many were moved.
func (s *Service) ExpireOverdue(ctx context.Context) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("agreement: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	ids, err := s.repo.ExpireOverdue(ctx, tx, s.now())
	if err != nil {
		return 0, err
	}

	for _, id := range ids {
		if err := s.repo.AppendTimeline(ctx, tx, id, "AGREEMENT_EXPIRED", "", nil); err != nil {
			return 0, err
		}
		if err := s.repo.EnqueueOutbox(ctx, tx, "agreement.expired", map[string]any{"agreement_id": id}); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("agreement: commit expiry sweep: %w", err)
	}
	return len(ids), nil
}
