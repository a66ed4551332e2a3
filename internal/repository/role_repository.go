package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RoleRepository manages role persistence.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	Update(ctx context.Context, role *domain.Role) error
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
	Delete(ctx context.Context, id string) error
	TierReferences(ctx context.Context, id string) (int, error)
}

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository builds the repository.
func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepository{pool: pool}
}

func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	const query = `
        INSERT INTO roles (name, description)
        VALUES ($1,$2)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		role.Name,
		role.Description,
	).Scan(&role.ID, &role.CreatedAt, &role.UpdatedAt)
}

func (r *roleRepository) Update(ctx context.Context, role *domain.Role) error {
	const query = `
        UPDATE roles SET name=$1, description=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, role.Name, role.Description, role.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *roleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	const query = `
        SELECT id, name, description, created_at, updated_at
        FROM roles WHERE id=$1`
	var role domain.Role
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&role.ID,
		&role.Name,
		&role.Description,
		&role.CreatedAt,
		&role.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) List(ctx context.Context) ([]domain.Role, error) {
	const query = `
        SELECT id, name, description, created_at, updated_at
        FROM roles ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, role)
	}
	return result, rows.Err()
}

func (r *roleRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// TierReferences counts escalation tiers pointing at the role.
func (r *roleRepository) TierReferences(ctx context.Context, id string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM escalation_tiers WHERE assignee_role_id=$1`, id,
	).Scan(&count)
	return count, err
}
