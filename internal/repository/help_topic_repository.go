package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// HelpTopicRepository manages help topic persistence.
type HelpTopicRepository interface {
	Create(ctx context.Context, topic *domain.HelpTopic) error
	Update(ctx context.Context, topic *domain.HelpTopic) error
	GetByID(ctx context.Context, id string) (*domain.HelpTopic, error)
	ListActive(ctx context.Context) ([]domain.HelpTopic, error)
}

type helpTopicRepository struct {
	pool *pgxpool.Pool
}

// NewHelpTopicRepository builds the repository.
func NewHelpTopicRepository(pool *pgxpool.Pool) HelpTopicRepository {
	return &helpTopicRepository{pool: pool}
}

func (r *helpTopicRepository) Create(ctx context.Context, topic *domain.HelpTopic) error {
	const query = `
        INSERT INTO help_topics (name, description, is_active)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		topic.Name,
		topic.Description,
		topic.IsActive,
	).Scan(&topic.ID, &topic.CreatedAt, &topic.UpdatedAt)
}

func (r *helpTopicRepository) Update(ctx context.Context, topic *domain.HelpTopic) error {
	const query = `
        UPDATE help_topics SET name=$1, description=$2, is_active=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		topic.Name,
		topic.Description,
		topic.IsActive,
		topic.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *helpTopicRepository) GetByID(ctx context.Context, id string) (*domain.HelpTopic, error) {
	const query = `
        SELECT id, name, description, is_active, created_at, updated_at
        FROM help_topics WHERE id=$1`
	var topic domain.HelpTopic
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&topic.ID,
		&topic.Name,
		&topic.Description,
		&topic.IsActive,
		&topic.CreatedAt,
		&topic.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *helpTopicRepository) ListActive(ctx context.Context) ([]domain.HelpTopic, error) {
	const query = `
        SELECT id, name, description, is_active, created_at, updated_at
        FROM help_topics WHERE is_active = TRUE ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.HelpTopic
	for rows.Next() {
		var topic domain.HelpTopic
		if err := rows.Scan(&topic.ID, &topic.Name, &topic.Description, &topic.IsActive, &topic.CreatedAt, &topic.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, topic)
	}
	return result, rows.Err()
}
