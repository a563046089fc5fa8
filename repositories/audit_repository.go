package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/brackethq/competition-core/models"
)

// AuditRepository persists audit entries. Writes run inside the same
// transaction as the mutation they record.
type AuditRepository interface {
	Create(ctx context.Context, exec SQLExecutor, entry *models.AuditEntry) error
}

type postgresAuditRepository struct {
	db *sql.DB
}

func NewPostgresAuditRepository(db *sql.DB) AuditRepository {
	return &postgresAuditRepository{db: db}
}

func (r *postgresAuditRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresAuditRepository) Create(ctx context.Context, exec SQLExecutor, entry *models.AuditEntry) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO audit_log (action, actor_id, tournament_id, before, after)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	var before, after interface{}
	if len(entry.Before) > 0 {
		before = []byte(entry.Before)
	}
	if len(entry.After) > 0 {
		after = []byte(entry.After)
	}

	err := executor.QueryRowContext(ctx, query,
		entry.Action, entry.ActorID, entry.TournamentID, before, after,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry %q: %w", entry.Action, err)
	}
	return nil
}
