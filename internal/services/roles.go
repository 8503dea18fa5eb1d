package services

import (
	"context"
	"fmt"

	"eventhub/internal/domain"
)

// resolveRole loads the user's groups and maps them to the effective role.
func resolveRole(ctx context.Context, roleRepo domain.RoleRepository, userID string) (domain.UserRole, error) {
	if userID == "" {
		return domain.RoleUser, nil
	}
	roles, err := roleRepo.ListByUserID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("list roles: %w", err)
	}
	codes := make([]string, 0, len(roles))
	for _, r := range roles {
		codes = append(codes, r.Code)
	}
	return domain.ResolveRole(codes), nil
}

func requireManager(ctx context.Context, roleRepo domain.RoleRepository, userID string) (domain.UserRole, error) {
	role, err := resolveRole(ctx, roleRepo, userID)
	if err != nil {
		return "", err
	}
	if !role.CanManageEvents() {
		return role, domain.ErrForbidden
	}
	return role, nil
}
