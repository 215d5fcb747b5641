package agreement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrEditForbidden signals the caller may not mutate the agreement: it is
// either past DRAFT or owned by someone else.
var ErrEditForbidden = errors.New("agreement: edit forbidden")

// CRUDService persists agreements together with their beneficiaries and
// asset allocations. Every write validates its input first and records a
// timeline event and outbox message in the same transaction.
type CRUDService struct {
	pool        *pgxpool.Pool
	repo        *Repository
	idGenerator func() string
	now         func() time.Time
}

func NewCRUDService(pool *pgxpool.Pool) *CRUDService {
	return &CRUDService{
		pool:        pool,
		repo:        NewRepository(),
		idGenerator: uuid.NewString,
		now:         time.Now,
	}
}

func (s *CRUDService) WithIDGenerator(gen func() string) *CRUDService {
	s.idGenerator = gen
	return s
}

// CreateParams enumerates the fields needed to create a draft agreement.
type CreateParams struct {
	OwnerID          string
	Title            string
	Description      *string
	DistributionType DistributionType
	EffectiveDate    *time.Time
	ExpiryDate       *time.Time
	Beneficiaries    []Beneficiary
	Assets           []AssetAllocation
}

// Create validates and persists a new agreement in DRAFT. Validation
// findings are returned as a *ValidationError so callers can render every
// problem at once.
func (s *CRUDService) Create(ctx context.Context, params CreateParams) (Agreement, error) {
	if params.OwnerID == "" {
		return Agreement{}, fmt.Errorf("agreement: owner id required")
	}

	dt := params.DistributionType
	res := ValidateInput(Input{
		Title:            params.Title,
		Description:      params.Description,
		DistributionType: &dt,
		EffectiveDate:    params.EffectiveDate,
		ExpiryDate:       params.ExpiryDate,
	})
	res.Merge(ValidateBeneficiaries(params.Beneficiaries, dt))
	res.Merge(ValidateAssets(params.Assets))
	if !res.Valid {
		return Agreement{}, &ValidationError{Result: res}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Agreement{}, fmt.Errorf("agreement: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	const insertSQL = `
		INSERT INTO agreements (id, owner_user_id, title, description, distribution_type, status, effective_date, expiry_date)
		VALUES ($1, $2, $3, $4, $5::distribution_type, 'DRAFT', $6, $7)
		RETURNING id, owner_user_id, title, description, distribution_type::text, status::text, effective_date, expiry_date, created_at, updated_at
	`
	var rec Agreement
	if err := tx.QueryRow(ctx, insertSQL,
		s.idGenerator(),
		params.OwnerID,
		params.Title,
		params.Description,
		dt,
		params.EffectiveDate,
		params.ExpiryDate,
	).Scan(
		&rec.ID,
		&rec.OwnerID,
		&rec.Title,
		&rec.Description,
		&rec.DistributionType,
		&rec.Status,
		&rec.EffectiveDate,
		&rec.ExpiryDate,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return Agreement{}, fmt.Errorf("agreement: insert: %w", err)
	}

	if rec.Beneficiaries, err = insertBeneficiaries(ctx, tx, rec.ID, params.Beneficiaries); err != nil {
		return Agreement{}, err
	}
	if err := insertAssets(ctx, tx, rec.ID, params.Assets); err != nil {
		return Agreement{}, err
	}
	rec.Assets = params.Assets

	payload := map[string]any{
		"title":             rec.Title,
		"distribution_type": rec.DistributionType,
		"beneficiaries":     len(rec.Beneficiaries),
		"assets":            len(rec.Assets),
	}
	if err := s.repo.AppendTimeline(ctx, tx, rec.ID, "AGREEMENT_CREATED", params.OwnerID, payload); err != nil {
		return Agreement{}, err
	}
	if err := s.repo.EnqueueOutbox(ctx, tx, "agreement.created", map[string]any{
		"agreement_id": rec.ID,
		"owner_id":     rec.OwnerID,
	}); err != nil {
		return Agreement{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Agreement{}, fmt.Errorf("agreement: commit: %w", err)
	}
	return rec, nil
}

// UpdateParams carries the mutable draft fields. Beneficiaries and assets
// are replaced wholesale.
type UpdateParams struct {
	Title            string
	Description      *string
	DistributionType DistributionType
	EffectiveDate    *time.Time
	ExpiryDate       *time.Time
	Beneficiaries    []Beneficiary
	Assets           []AssetAllocation
}

// Update mutates a draft agreement. Only the owner may edit, and only while
// the agreement is DRAFT.
func (s *CRUDService) Update(ctx context.Context, userID, agreementID string, params UpdateParams) (Agreement, error) {
	dt := params.DistributionType
	res := ValidateInput(Input{
		Title:            params.Title,
		Description:      params.Description,
		DistributionType: &dt,
		EffectiveDate:    params.EffectiveDate,
		ExpiryDate:       params.ExpiryDate,
	})
	res.Merge(ValidateBeneficiaries(params.Beneficiaries, dt))
	res.Merge(ValidateAssets(params.Assets))
	if !res.Valid {
		return Agreement{}, &ValidationError{Result: res}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Agreement{}, fmt.Errorf("agreement: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row, err := s.repo.GetStatusForUpdate(ctx, tx, agreementID)
	if err != nil {
		return Agreement{}, err
	}
	if !CanEdit(row.Status, userID, row.OwnerID) {
		return Agreement{}, ErrEditForbidden
	}

	const updateSQL = `
		UPDATE agreements
		SET title = $1,
		    description = $2,
		    distribution_type = $3::distribution_type,
		    effective_date = $4,
		    expiry_date = $5,
		    updated_at = now()
		WHERE id = $6
		RETURNING id, owner_user_id, title, description, distribution_type::text, status::text, effective_date, expiry_date, created_at, updated_at
	`
	var rec Agreement
	if err := tx.QueryRow(ctx, updateSQL,
		params.Title,
		params.Description,
		dt,
		params.EffectiveDate,
		params.ExpiryDate,
		agreementID,
	).Scan(
		&rec.ID,
		&rec.OwnerID,
		&rec.Title,
		&rec.Description,
		&rec.DistributionType,
		&rec.Status,
		&rec.EffectiveDate,
		&rec.ExpiryDate,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return Agreement{}, fmt.Errorf("agreement: update: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM beneficiaries WHERE agreement_id = $1`, agreementID); err != nil {
		return Agreement{}, fmt.Errorf("agreement: clear beneficiaries: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM agreement_assets WHERE agreement_id = $1`, agreementID); err != nil {
		return Agreement{}, fmt.Errorf("agreement: clear assets: %w", err)
	}
	if rec.Beneficiaries, err = insertBeneficiaries(ctx, tx, agreementID, params.Beneficiaries); err != nil {
		return Agreement{}, err
	}
	if err := insertAssets(ctx, tx, agreementID, params.Assets); err != nil {
		return Agreement{}, err
	}
	rec.Assets = params.Assets

	if err := s.repo.AppendTimeline(ctx, tx, agreementID, "AGREEMENT_UPDATED", userID, map[string]any{
		"title": rec.Title,
	}); err != nil {
		return Agreement{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Agreement{}, fmt.Errorf("agreement: commit update: %w", err)
	}
	return rec, nil
}

// Get loads an agreement with its beneficiaries and asset allocations.
func (s *CRUDService) Get(ctx context.Context, agreementID string) (Agreement, error) {
	const query = `
		SELECT id, owner_user_id, title, description, distribution_type::text, status::text, effective_date, expiry_date, created_at, updated_at
		FROM agreements
		WHERE id = $1
	`
	var rec Agreement
	err := s.pool.QueryRow(ctx, query, agreementID).Scan(
		&rec.ID,
		&rec.OwnerID,
		&rec.Title,
		&rec.Description,
		&rec.DistributionType,
		&rec.Status,
		&rec.EffectiveDate,
		&rec.ExpiryDate,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Agreement{}, ErrNotFound
		}
		return Agreement{}, fmt.Errorf("agreement: get: %w", err)
	}

	const beneficiarySQL = `
		SELECT id, family_member_id, non_registered_family_member_id, relation, share_percentage, share_description
		FROM beneficiaries
		WHERE agreement_id = $1
		ORDER BY created_at, id
	`
	rows, err := s.pool.Query(ctx, beneficiarySQL, agreementID)
	if err != nil {
		return Agreement{}, fmt.Errorf("agreement: load beneficiaries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var b Beneficiary
		if err := rows.Scan(&b.ID, &b.FamilyMemberID, &b.NonRegisteredFamilyMemberID, &b.Relation, &b.SharePercentage, &b.ShareDescription); err != nil {
			return Agreement{}, fmt.Errorf("agreement: scan beneficiary: %w", err)
		}
		rec.Beneficiaries = append(rec.Beneficiaries, b)
	}
	if err := rows.Err(); err != nil {
		return Agreement{}, fmt.Errorf("agreement: iterate beneficiaries: %w", err)
	}

	const assetSQL = `
		SELECT asset_id, allocated_value, allocated_percentage
		FROM agreement_assets
		WHERE agreement_id = $1
		ORDER BY asset_id
	`
	assetRows, err := s.pool.Query(ctx, assetSQL, agreementID)
	if err != nil {
		return Agreement{}, fmt.Errorf("agreement: load assets: %w", err)
	}
	defer assetRows.Close()
	for assetRows.Next() {
		var a AssetAllocation
		if err := assetRows.Scan(&a.AssetID, &a.AllocatedValue, &a.AllocatedPercentage); err != nil {
			return Agreement{}, fmt.Errorf("agreement: scan asset: %w", err)
		}
		rec.Assets = append(rec.Assets, a)
	}
	if err := assetRows.Err(); err != nil {
		return Agreement{}, fmt.Errorf("agreement: iterate assets: %w", err)
	}

	return rec, nil
}

// ListFilters narrows and pages the agreement listing.
type ListFilters struct {
	OwnerID  string
	Page     int
	PageSize int
}

// List returns the owner's agreements, newest first, with the total count.
func (s *CRUDService) List(ctx context.Context, filters ListFilters) ([]Agreement, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	const query = `
		SELECT id, owner_user_id, title, description, distribution_type::text, status::text, effective_date, expiry_date, created_at, updated_at
		FROM agreements
		WHERE owner_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.pool.Query(ctx, query, filters.OwnerID, filters.PageSize, (filters.Page-1)*filters.PageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("agreement: list: %w", err)
	}
	defer rows.Close()

	records := []Agreement{}
	for rows.Next() {
		var rec Agreement
		if err := rows.Scan(
			&rec.ID,
			&rec.OwnerID,
			&rec.Title,
			&rec.Description,
			&rec.DistributionType,
			&rec.Status,
			&rec.EffectiveDate,
			&rec.ExpiryDate,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("agreement: scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("agreement: iterate: %w", err)
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM agreements WHERE owner_user_id = $1`, filters.OwnerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("agreement: count: %w", err)
	}

	return records, total, nil
}

func insertBeneficiaries(ctx context.Context, tx pgx.Tx, agreementID string, list []Beneficiary) ([]Beneficiary, error) {
	const query = `
		INSERT INTO beneficiaries (agreement_id, family_member_id, non_registered_family_member_id, relation, share_percentage, share_description)
		VALUES ($1, $2::uuid, $3::uuid, $4, $5, $6)
		RETURNING id
	`
	out := make([]Beneficiary, 0, len(list))
	for _, b := range list {
		if err := tx.QueryRow(ctx, query,
			agreementID,
			b.FamilyMemberID,
			b.NonRegisteredFamilyMemberID,
			b.Relation,
			b.SharePercentage,
			b.ShareDescription,
		).Scan(&b.ID); err != nil {
			return nil, fmt.Errorf("agreement: insert beneficiary: %w", err)
		}
		out = append(out, b)
	}
	return out, nil
}

func insertAssets(ctx context.Context, tx pgx.Tx, agreementID string, list []AssetAllocation) error {
	const query = `
		INSERT INTO agreement_assets (agreement_id, asset_id, allocated_value, allocated_percentage)
		VALUES ($1, $2, $3, $4)
	`
	for _, a := range list {
		if _, err := tx.Exec(ctx, query, agreementID, a.AssetID, a.AllocatedValue, a.AllocatedPercentage); err != nil {
			return fmt.Errorf("agreement: insert asset: %w", err)
		}
	}
	return nil
}
