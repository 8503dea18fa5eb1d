package domain

import (
	"context"
	"strings"
)

// UserRole is the effective role a user acts with.
type UserRole string

const (
	RoleAdmin       UserRole = "Admin"
	RoleOrganizer   UserRole = "Organizer"
	RoleParticipant UserRole = "Participant"
	RoleUser        UserRole = "User"
)

// Role is a group a user belongs to (admin, organizer, participant).
type Role struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

// NewRole returns a new Role with the given id and code.
func NewRole(id, code string) *Role {
	return &Role{ID: id, Code: code}
}

// ResolveRole maps group codes to the highest-ranked role:
// Admin, then Organizer, then Participant, falling back to User.
func ResolveRole(codes []string) UserRole {
	has := make(map[string]bool, len(codes))
	for _, c := range codes {
		has[strings.ToLower(strings.TrimSpace(c))] = true
	}
	switch {
	case has["admin"]:
		return RoleAdmin
	case has["organizer"]:
		return RoleOrganizer
	case has["participant"]:
		return RoleParticipant
	default:
		return RoleUser
	}
}

// CanManageEvents reports whether the role may create events and categories.
func (r UserRole) CanManageEvents() bool {
	return r == RoleAdmin || r == RoleOrganizer
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// RoleRepository defines the interface for role storage
type RoleRepository interface {
	ListByUserID(ctx context.Context, userID string) ([]*Role, error)
}
