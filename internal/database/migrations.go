package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task indexes for scoped listing and the report view
		{"tasks", "idx_tasks_assigned_to_id", "assigned_to_id"},
		{"tasks", "idx_tasks_status", "status"},
		{"tasks", "idx_tasks_updated_at", "updated_at"},

		// Profile indexes for role filtering and delegated-admin scoping
		{"profiles", "idx_profiles_role", "role"},
		{"profiles", "idx_profiles_assigned_admin_id", "assigned_admin_id"},

		// Membership projection lookups
		{"group_memberships", "idx_group_memberships_group_id", "group_id"},
		{"group_memberships", "idx_group_memberships_user_id", "user_id"},

		{"groups", "idx_groups_name", "name"},
	}

	for _, idx := range indexes {
		// Check if index already exists
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
