package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EscalationRuleRepository encapsulates escalation rule persistence. A rule
// and its tiers are written atomically; Update replaces the tier set.
type EscalationRuleRepository interface {
	Create(ctx context.Context, rule *domain.EscalationRule) error
	Update(ctx context.Context, rule *domain.EscalationRule) error
	GetByID(ctx context.Context, id string) (*domain.EscalationRule, error)
	List(ctx context.Context) ([]domain.EscalationRule, error)
	Delete(ctx context.Context, id string) error
}

type escalationRuleRepository struct {
	pool *pgxpool.Pool
}

// NewEscalationRuleRepository instantiates repository.
func NewEscalationRuleRepository(pool *pgxpool.Pool) EscalationRuleRepository {
	return &escalationRuleRepository{pool: pool}
}

func (r *escalationRuleRepository) Create(ctx context.Context, rule *domain.EscalationRule) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO escalation_rules (name, description, priority, time_threshold_minutes)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, query,
		rule.Name,
		rule.Description,
		rule.Priority,
		rule.TimeThresholdMinutes,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt); err != nil {
		return err
	}

	if err := insertTiers(ctx, tx, rule); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *escalationRuleRepository) Update(ctx context.Context, rule *domain.EscalationRule) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        UPDATE escalation_rules SET name=$1, description=$2, priority=$3,
            time_threshold_minutes=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING created_at, updated_at`
	if err := tx.QueryRow(ctx, query,
		rule.Name,
		rule.Description,
		rule.Priority,
		rule.TimeThresholdMinutes,
		rule.ID,
	).Scan(&rule.CreatedAt, &rule.UpdatedAt); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM escalation_tiers WHERE rule_id=$1`, rule.ID); err != nil {
		return err
	}
	if err := insertTiers(ctx, tx, rule); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertTiers(ctx context.Context, tx pgx.Tx, rule *domain.EscalationRule) error {
	const query = `
        INSERT INTO escalation_tiers (rule_id, level, assignee_role_id, sla_hours)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	for i := range rule.Tiers {
		tier := &rule.Tiers[i]
		if err := tx.QueryRow(ctx, query,
			rule.ID,
			tier.Level,
			tier.AssigneeRoleID,
			tier.SLAHours,
		).Scan(&tier.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *escalationRuleRepository) GetByID(ctx context.Context, id string) (*domain.EscalationRule, error) {
	const query = `
        SELECT id, name, description, priority, time_threshold_minutes, created_at, updated_at
        FROM escalation_rules WHERE id=$1`
	var rule domain.EscalationRule
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&rule.ID,
		&rule.Name,
		&rule.Description,
		&rule.Priority,
		&rule.TimeThresholdMinutes,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	); err != nil {
		return nil, err
	}
	tiers, err := r.loadTiers(ctx, rule.ID)
	if err != nil {
		return nil, err
	}
	rule.Tiers = tiers
	return &rule, nil
}

func (r *escalationRuleRepository) List(ctx context.Context) ([]domain.EscalationRule, error) {
	const query = `
        SELECT id, name, description, priority, time_threshold_minutes, created_at, updated_at
        FROM escalation_rules ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EscalationRule
	for rows.Next() {
		var rule domain.EscalationRule
		if err := rows.Scan(
			&rule.ID,
			&rule.Name,
			&rule.Description,
			&rule.Priority,
			&rule.TimeThresholdMinutes,
			&rule.CreatedAt,
			&rule.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		tiers, err := r.loadTiers(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Tiers = tiers
	}
	return result, nil
}

func (r *escalationRuleRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM escalation_rules WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *escalationRuleRepository) loadTiers(ctx context.Context, ruleID string) ([]domain.Tier, error) {
	const query = `
        SELECT id, level, assignee_role_id, sla_hours
        FROM escalation_tiers WHERE rule_id=$1 ORDER BY level, id`
	rows, err := r.pool.Query(ctx, query, ruleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tiers []domain.Tier
	for rows.Next() {
		var tier domain.Tier
		if err := rows.Scan(&tier.ID, &tier.Level, &tier.AssigneeRoleID, &tier.SLAHours); err != nil {
			return nil, err
		}
		tiers = append(tiers, tier)
	}
	return tiers, rows.Err()
}
