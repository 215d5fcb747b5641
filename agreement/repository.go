package agreement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when no agreement row exists for the identifier.
	ErrNotFound = errors.New("agreement: not found")
	// ErrDuplicateSignature signals the signer already signed this agreement.
	ErrDuplicateSignature = errors.New("agreement: duplicate signature")
	// ErrBeneficiaryNotFound signals the beneficiary does not belong to the agreement.
	ErrBeneficiaryNotFound = errors.New("agreement: beneficiary not found")
)

// Repository executes agreement writes inside a caller-provided transaction
// so lifecycle changes, timeline events and outbox rows commit atomically.
type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

// StatusRow is the slice of an agreement the lifecycle service locks.
type StatusRow struct {
	ID      string
	OwnerID string
	Status  Status
}

// GetStatusForUpdate locks the agreement row and returns its current status.
func (r *Repository) GetStatusForUpdate(ctx context.Context, tx pgx.Tx, agreementID string) (StatusRow, error) {
	const query = `
		SELECT id, owner_user_id, status::text
		FROM agreements
		WHERE id = $1
		FOR UPDATE
	`
	var row StatusRow
	if err := tx.QueryRow(ctx, query, agreementID).Scan(&row.ID, &row.OwnerID, &row.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StatusRow{}, ErrNotFound
		}
		return StatusRow{}, fmt.Errorf("agreement: fetch for update: %w", err)
	}
	return row, nil
}

// SigningState derives the collected-signature summary for the agreement.
func (r *Repository) SigningState(ctx context.Context, tx pgx.Tx, agreementID string) (SigningState, error) {
	const query = `
		SELECT
			EXISTS (
				SELECT 1 FROM signatures
				WHERE agreement_id = $1 AND signer_type = 'owner'
			),
			EXISTS (SELECT 1 FROM beneficiaries WHERE agreement_id = $1)
			AND NOT EXISTS (
				SELECT 1 FROM beneficiaries b
				WHERE b.agreement_id = $1
				  AND NOT EXISTS (
					SELECT 1 FROM signatures s
					WHERE s.agreement_id = $1
					  AND s.signer_type = 'beneficiary'
					  AND s.beneficiary_id = b.id
				  )
			),
			EXISTS (
				SELECT 1 FROM signatures
				WHERE agreement_id = $1 AND signer_type = 'witness'
			)
	`
	var state SigningState
	err := tx.QueryRow(ctx, query, agreementID).Scan(
		&state.OwnerHasSigned,
		&state.AllBeneficiariesSigned,
		&state.Witnessed,
	)
	if err != nil {
		return SigningState{}, fmt.Errorf("agreement: signing state: %w", err)
	}
	return state, nil
}

// UpdateStatus writes the new status and stamps who moved it.
func (r *Repository) UpdateStatus(ctx context.Context, tx pgx.Tx, agreementID string, next Status, actorID string) error {
	const query = `
		UPDATE agreements
		SET status = $1::agreement_status,
		    status_updated_at = now(),
		    status_updated_by = $2::uuid,
		    updated_at = now()
		WHERE id = $3
	`
	var actor any
	if actorID != "" {
		actor = actorID
	}
	tag, err := tx.Exec(ctx, query, next, actor, agreementID)
	if err != nil {
		return fmt.Errorf("agreement: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SignatureParams enumerates a signature insert. BeneficiaryID is required
// for beneficiary signatures and must belong to the agreement.
type SignatureParams struct {
	AgreementID   string
	SignerType    SignerType
	SignerUserID  string
	BeneficiaryID string
}

// InsertSignature records the signature. Beneficiary signatures are inserted
// through a membership check so a signature can never attach to a
// beneficiary of a different agreement.
func (r *Repository) InsertSignature(ctx context.Context, tx pgx.Tx, params SignatureParams) error {
	var signerUser any
	if params.SignerUserID != "" {
		signerUser = params.SignerUserID
	}

	var err error
	if params.SignerType == SignerBeneficiary {
		const query = `
			INSERT INTO signatures (agreement_id, signer_type, signer_user_id, beneficiary_id)
			SELECT b.agreement_id, 'beneficiary', $2::uuid, b.id
			FROM beneficiaries b
			WHERE b.id = $3 AND b.agreement_id = $1
			RETURNING id
		`
		var id string
		err = tx.QueryRow(ctx, query, params.AgreementID, signerUser, params.BeneficiaryID).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrBeneficiaryNotFound
		}
	} else {
		const query = `
			INSERT INTO signatures (agreement_id, signer_type, signer_user_id)
			VALUES ($1, $2, $3::uuid)
		`
		_, err = tx.Exec(ctx, query, params.AgreementID, params.SignerType, signerUser)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSignature
		}
		return fmt.Errorf("agreement: insert signature: %w", err)
	}
	return nil
}

// AppendTimeline records an immutable business event for the agreement.
func (r *Repository) AppendTimeline(ctx context.Context, tx pgx.Tx, agreementID, eventType, actorID string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("agreement: marshal timeline payload: %w", err)
	}
	var actor any
	if actorID != "" {
		actor = actorID
	}
	const query = `
		INSERT INTO timeline_events (agreement_id, type, payload, actor_id)
		VALUES ($1, $2, $3::jsonb, $4::uuid)
	`
	if _, err := tx.Exec(ctx, query, agreementID, eventType, body, actor); err != nil {
		return fmt.Errorf("agreement: insert timeline event: %w", err)
	}
	return nil
}

// EnqueueOutbox writes a transactional outbox message for downstream delivery.
func (r *Repository) EnqueueOutbox(ctx context.Context, tx pgx.Tx, topic string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("agreement: marshal outbox payload: %w", err)
	}
	const query = `INSERT INTO outbox (topic, payload) VALUES ($1, $2::jsonb)`
	if _, err := tx.Exec(ctx, query, topic, body); err != nil {
		return fmt.Errorf("agreement: enqueue outbox: %w", err)
	}
	return nil
}

// ExpireOverdue moves every non-terminal agreement whose expiry date has
// passed to EXPIRED and returns the affected ids. The expiry sweep is the
// only legal producer of the EXPIRED status.
func (r *Repository) ExpireOverdue(ctx context.Context, tx pgx.Tx, now time.Time) ([]string, error) {
	const query = `
		UPDATE agreements
		SET status = 'EXPIRED',
		    status_updated_at = now(),
		    updated_at = now()
		WHERE expiry_date IS NOT NULL
		  AND expiry_date < $1
		  AND status NOT IN ('COMPLETED', 'CANCELLED', 'EXPIRED')
		RETURNING id
	`
	rows, err := tx.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("agreement: expire overdue: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0, 8)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("agreement: scan expired id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("agreement: iterate expired ids: %w", err)
	}
	return ids, nil
}
