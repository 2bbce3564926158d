package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/yukikurage/org-management-api/internal/models"
	"gorm.io/gorm"
)

type uniqueIndex struct {
	model  any
	table  string
	name   string
	column string
}

// Slugs, usernames and emails are unique regardless of case.
var caseInsensitiveIndexes = []uniqueIndex{
	{&models.Organization{}, "organizations", "uniq_organizations_slug_ci", "slug"},
	{&models.User{}, "users", "uniq_users_username_ci", "username"},
	{&models.User{}, "users", "uniq_users_email_ci", "email"},
}

// AddIndexes creates the case-insensitive unique indexes. MySQL's default
// utf8mb4 collation already compares case-insensitively, so a plain unique
// index is enough there; other dialects index LOWER(column).
func AddIndexes(db *gorm.DB) error {
	for _, idx := range caseInsensitiveIndexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			log.Debug().Str("index", idx.name).Msg("index already exists, skipping")
			continue
		}

		expr := fmt.Sprintf("LOWER(%s)", idx.column)
		if db.Dialector.Name() == "mysql" {
			expr = idx.column
		}

		sql := fmt.Sprintf("CREATE UNIQUE INDEX %s ON %s (%s)", idx.name, idx.table, expr)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info().Str("index", idx.name).Str("table", idx.table).Msg("created index")
	}

	return nil
}
