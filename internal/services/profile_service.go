package services

import (
	"fmt"
	"log"

	apierrors "github.com/taskdesk/taskdesk-api/internal/errors"
	"github.com/taskdesk/taskdesk-api/internal/models"
	"github.com/taskdesk/taskdesk-api/internal/permissions"
	"github.com/taskdesk/taskdesk-api/internal/repository"
)

// ProfileService handles role and admin-assignment changes. Both mutations are
// SuperAdmin-gated; role changes trigger a group sync after the profile write
// is durable.
type ProfileService struct {
	profiles  repository.ProfileRepository
	groupSync *GroupSyncService
	policy    *permissions.Policy
}

// NewProfileService creates a new ProfileService
func NewProfileService(profiles repository.ProfileRepository, groupSync *GroupSyncService, policy *permissions.Policy) *ProfileService {
	return &ProfileService{
		profiles:  profiles,
		groupSync: groupSync,
		policy:    policy,
	}
}

// EnsureProfile returns the profile for the user, creating a default USER one
// when none exists, and brings the membership projection up to date.
func (s *ProfileService) EnsureProfile(userID uint64) (*models.Profile, error) {
	profile, err := s.profiles.EnsureForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure profile: %w", err)
	}

	s.syncGroups(profile.UserID, profile.Role)

	return profile, nil
}

// SetRole changes an account's role. Clearing a stale admin assignment is
// part of the role change itself, not a separate step.
func (s *ProfileService) SetRole(actor *models.User, targetUserID uint64, newRole models.Role) (*models.Profile, error) {
	if !s.policy.CanManageAccounts(actor) {
		return nil, apierrors.NewAuthorizationError("Only a SuperAdmin can change roles")
	}

	profile, err := s.profiles.UpdateRole(targetUserID, newRole)
	if err != nil {
		return nil, err
	}

	s.syncGroups(profile.UserID, profile.Role)

	return profile, nil
}

// SetAssignedAdmin sets or clears (nil) the delegated admin for a USER account
func (s *ProfileService) SetAssignedAdmin(actor *models.User, targetUserID uint64, adminID *uint64) (*models.Profile, error) {
	if !s.policy.CanManageAccounts(actor) {
		return nil, apierrors.NewAuthorizationError("Only a SuperAdmin can assign users to admins")
	}

	return s.profiles.AssignAdmin(targetUserID, adminID)
}

// syncGroups runs the membership projection sync after a durable profile
// write. A sync failure never rolls back the profile change: the projection is
// non-authoritative and heals on the next role-affecting write.
func (s *ProfileService) syncGroups(userID uint64, role models.Role) {
	if err := s.groupSync.SyncUserRole(userID, role); err != nil {
		log.Printf("group sync failed for user %d: %v", userID, err)
	}
}
