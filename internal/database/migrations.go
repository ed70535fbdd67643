package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes the lifecycle queries rely on.
// Single column indexes come from the model tags.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Accepted offer lookup and pending offer counts per task
		{"offers", "idx_offers_task_decision", "task_id, is_accepted, is_rejected"},
		{"offers", "idx_offers_task_provider", "task_id, provider_id"},

		// listMyTasks ordering
		{"tasks", "idx_tasks_owner_start", "owner_id, expected_start_date"},
		{"tasks", "idx_tasks_status_start", "status, expected_start_date"},

		{"progress", "idx_progress_task_created", "task_id, created_at"},

		// Skill listing filtered by provider and category
		{"skills", "idx_skills_provider_category", "provider_id, category_id"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			log.Debug().Str("index", idx.name).Msg("index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info().Str("index", idx.name).Str("table", idx.table).Msg("created index")
	}

	return nil
}

// MigrateDatabase creates or updates every table, then adds indexes.
func MigrateDatabase(db *gorm.DB) error {
	log.Info().Msg("running database migrations")
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	log.Info().Msg("database migrations completed")
	return nil
}
