package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes beyond what AutoMigrate declares
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Membership lookups by unit and by user dominate the permission checks
		{"memberships", "idx_memberships_org_unit_id", "org_unit_id"},
		{"memberships", "idx_memberships_user_id", "user_id"},

		// PENDING-invite lookup per (unit, user) pair
		{"invites", "idx_invites_unit_user_status", "org_unit_id, invited_user_id, status"},

		// Inbox reads filter by user and read state
		{"notice_recipients", "idx_notice_recipients_user_read", "user_id, read"},
	}

	for _, idx := range indexes {
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
