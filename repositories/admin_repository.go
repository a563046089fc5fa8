package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/brackethq/competition-core/models"
)

var ErrAdminNotFound = errors.New("tournament admin not found")

// AdminRepository resolves per-tournament roles and the organization-admin
// fallback. Soft-deleted rows grant nothing.
type AdminRepository interface {
	GetRole(ctx context.Context, exec SQLExecutor, tournamentID, userID int) (models.AdminRole, error)
	IsOrganizationAdmin(ctx context.Context, exec SQLExecutor, organizationID, userID int) (bool, error)
}

type postgresAdminRepository struct {
	db *sql.DB
}

func NewPostgresAdminRepository(db *sql.DB) AdminRepository {
	return &postgresAdminRepository{db: db}
}

func (r *postgresAdminRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresAdminRepository) GetRole(ctx context.Context, exec SQLExecutor, tournamentID, userID int) (models.AdminRole, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT role FROM tournament_admins
		WHERE tournament_id = $1 AND user_id = $2 AND deleted_at IS NULL`

	var role models.AdminRole
	err := executor.QueryRowContext(ctx, query, tournamentID, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RoleNone, nil
		}
		return models.RoleNone, fmt.Errorf("failed to look up role for user %d in tournament %d: %w", userID, tournamentID, err)
	}
	return role, nil
}

func (r *postgresAdminRepository) IsOrganizationAdmin(ctx context.Context, exec SQLExecutor, organizationID, userID int) (bool, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT EXISTS (
			SELECT 1 FROM organization_admins
			WHERE organization_id = $1 AND user_id = $2 AND deleted_at IS NULL
		)`

	var isAdmin bool
	err := executor.QueryRowContext(ctx, query, organizationID, userID).Scan(&isAdmin)
	if err != nil {
		return false, fmt.Errorf("failed to check organization admin for user %d in organization %d: %w", userID, organizationID, err)
	}
	return isAdmin, nil
}
