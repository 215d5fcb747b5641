package family

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Atan0707/wemsp-v2-sub000/faraid"
)

var (
	// ErrMemberNotFound signals that the family member does not exist.
	ErrMemberNotFound = errors.New("family: member not found")
	// ErrInvalidRelation signals an unknown relation value.
	ErrInvalidRelation = errors.New("family: invalid relation")
)

// Repository handles data access for the family registry.
type Repository interface {
	CreateMember(ctx context.Context, params CreateMemberParams) (Member, error)
	GetMember(ctx context.Context, ownerID, memberID string) (Member, error)
	ListMembers(ctx context.Context, ownerID string) ([]Member, error)
	DeleteMember(ctx context.Context, ownerID, memberID string) error
}

// CreateMemberParams contains write parameters for registering a family member.
type CreateMemberParams struct {
	OwnerID  string
	UserID   *string
	FullName string
	Relation faraid.Relation
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed family repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// CreateMember records a family member under the owner's registry.
func (r *PGRepository) CreateMember(ctx context.Context, params CreateMemberParams) (Member, error) {
	if params.FullName == "" {
		return Member{}, fmt.Errorf("family: full name is required")
	}
	if !faraid.IsValidRelation(params.Relation) {
		return Member{}, fmt.Errorf("%w: %q", ErrInvalidRelation, params.Relation)
	}

	const insertSQL = `
		INSERT INTO family_members (owner_user_id, user_id, full_name, relation)
		VALUES ($1, $2::uuid, $3, $4)
		RETURNING id, owner_user_id, user_id, full_name, relation, created_at
	`
	member, err := scanMember(r.pool.QueryRow(ctx, insertSQL,
		params.OwnerID, params.UserID, params.FullName, params.Relation))
	if err != nil {
		return Member{}, fmt.Errorf("family: create member: %w", err)
	}
	return member, nil
}

// GetMember retrieves one of the owner's family members.
func (r *PGRepository) GetMember(ctx context.Context, ownerID, memberID string) (Member, error) {
	const selectSQL = `
		SELECT id, owner_user_id, user_id, full_name, relation, created_at
		FROM family_members
		WHERE id = $1 AND owner_user_id = $2
	`
	member, err := scanMember(r.pool.QueryRow(ctx, selectSQL, memberID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Member{}, ErrMemberNotFound
		}
		return Member{}, fmt.Errorf("family: get member: %w", err)
	}
	return member, nil
}

// ListMembers returns the owner's registry, oldest first.
func (r *PGRepository) ListMembers(ctx context.Context, ownerID string) ([]Member, error) {
	const selectSQL = `
		SELECT id, owner_user_id, user_id, full_name, relation, created_at
		FROM family_members
		WHERE owner_user_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.pool.Query(ctx, selectSQL, ownerID)
	if err != nil {
		return nil, fmt.Errorf("family: list members: %w", err)
	}
	defer rows.Close()

	members := []Member{}
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("family: scan member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("family: iterate members: %w", err)
	}
	return members, nil
}

// DeleteMember removes a member from the owner's registry.
func (r *PGRepository) DeleteMember(ctx context.Context, ownerID, memberID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM family_members WHERE id = $1 AND owner_user_id = $2`, memberID, ownerID)
	if err != nil {
		return fmt.Errorf("family: delete member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func scanMember(row pgx.Row) (Member, error) {
	var m Member
	err := row.Scan(
		&m.ID,
		&m.OwnerID,
		&m.UserID,
		&m.FullName,
		&m.Relation,
		&m.CreatedAt,
	)
	if err != nil {
		return Member{}, err
	}
	return m, nil
}
