package services

import (
	"context"
	"fmt"

	"github.com/brackethq/competition-core/models"
	"github.com/brackethq/competition-core/repositories"
)

// RoleService is the authorization gate. Resolution order: organization-admin
// fallback (treated as Owner, only for tournaments that belong to an
// organization), then the direct tournament role. Soft-deleted admin rows are
// filtered out by the repository.
type RoleService interface {
	Resolve(ctx context.Context, tournament *models.Tournament, userID int) (models.AdminRole, error)
	RequireAtLeast(ctx context.Context, tournament *models.Tournament, userID int, min models.AdminRole) error
}

type roleService struct {
	adminRepo repositories.AdminRepository
}

func NewRoleService(adminRepo repositories.AdminRepository) RoleService {
	return &roleService{adminRepo: adminRepo}
}

func (s *roleService) Resolve(ctx context.Context, tournament *models.Tournament, userID int) (models.AdminRole, error) {
	if tournament.OrganizationID != nil {
		isOrgAdmin, err := s.adminRepo.IsOrganizationAdmin(ctx, nil, *tournament.OrganizationID, userID)
		if err != nil {
			return models.RoleNone, fmt.Errorf("failed to resolve organization fallback: %w", err)
		}
		if isOrgAdmin {
			return models.RoleOwner, nil
		}
	}

	role, err := s.adminRepo.GetRole(ctx, nil, tournament.ID, userID)
	if err != nil {
		return models.RoleNone, fmt.Errorf("failed to resolve tournament role: %w", err)
	}
	return role, nil
}

func (s *roleService) RequireAtLeast(ctx context.Context, tournament *models.Tournament, userID int, min models.AdminRole) error {
	role, err := s.Resolve(ctx, tournament, userID)
	if err != nil {
		return err
	}
	if !role.AtLeast(min) {
		return fmt.Errorf("%w: requires at least %s role", ErrForbiddenOperation, min)
	}
	return nil
}
