package services

import (
	"fmt"

	"github.com/taskdesk/taskdesk-api/internal/constants"
	"github.com/taskdesk/taskdesk-api/internal/models"
	"github.com/taskdesk/taskdesk-api/internal/repository"
)

// GroupSyncService keeps the role-group membership projection consistent with
// the authoritative profile role. It is invoked as an explicit post-commit
// hook by the profile and account services; it never participates in the
// triggering write's transaction, and the projection self-heals on the next
// role-affecting write if a sync fails.
type GroupSyncService struct {
	groups repository.GroupRepository
}

// NewGroupSyncService creates a new GroupSyncService
func NewGroupSyncService(groups repository.GroupRepository) *GroupSyncService {
	return &GroupSyncService{groups: groups}
}

// EnsureRoleGroups creates any missing role groups. Safe to call at process
// start and again from any write path that discovers a missing group.
func (s *GroupSyncService) EnsureRoleGroups() error {
	if err := s.groups.EnsureGroups(constants.RoleGroupNames()); err != nil {
		return fmt.Errorf("failed to ensure role groups: %w", err)
	}
	return nil
}

// SyncUserRole places the account in exactly one role group, the one mapped
// from the given role. Re-running for an unchanged role is a no-op in effect.
func (s *GroupSyncService) SyncUserRole(userID uint64, role models.Role) error {
	desired := constants.GroupForRole(role)
	if err := s.groups.ReplaceMembership(userID, desired, constants.RoleGroupNames()); err != nil {
		return fmt.Errorf("failed to sync role groups for user %d: %w", userID, err)
	}
	return nil
}
