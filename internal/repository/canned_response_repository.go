package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CannedResponseRepository manages reply template persistence.
type CannedResponseRepository interface {
	Create(ctx context.Context, resp *domain.CannedResponse) error
	Update(ctx context.Context, resp *domain.CannedResponse) error
	GetByID(ctx context.Context, id string) (*domain.CannedResponse, error)
	List(ctx context.Context) ([]domain.CannedResponse, error)
	Delete(ctx context.Context, id string) error
}

type cannedResponseRepository struct {
	pool *pgxpool.Pool
}

// NewCannedResponseRepository builds the repository.
func NewCannedResponseRepository(pool *pgxpool.Pool) CannedResponseRepository {
	return &cannedResponseRepository{pool: pool}
}

func (r *cannedResponseRepository) Create(ctx context.Context, resp *domain.CannedResponse) error {
	const query = `
        INSERT INTO canned_responses (title, body)
        VALUES ($1,$2)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, resp.Title, resp.Body).
		Scan(&resp.ID, &resp.CreatedAt, &resp.UpdatedAt)
}

func (r *cannedResponseRepository) Update(ctx context.Context, resp *domain.CannedResponse) error {
	const query = `
        UPDATE canned_responses SET title=$1, body=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, resp.Title, resp.Body, resp.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *cannedResponseRepository) GetByID(ctx context.Context, id string) (*domain.CannedResponse, error) {
	const query = `
        SELECT id, title, body, created_at, updated_at
        FROM canned_responses WHERE id=$1`
	var resp domain.CannedResponse
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&resp.ID,
		&resp.Title,
		&resp.Body,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *cannedResponseRepository) List(ctx context.Context) ([]domain.CannedResponse, error) {
	const query = `
        SELECT id, title, body, created_at, updated_at
        FROM canned_responses ORDER BY title`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CannedResponse
	for rows.Next() {
		var resp domain.CannedResponse
		if err := rows.Scan(&resp.ID, &resp.Title, &resp.Body, &resp.CreatedAt, &resp.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, resp)
	}
	return result, rows.Err()
}

func (r *cannedResponseRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM canned_responses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
