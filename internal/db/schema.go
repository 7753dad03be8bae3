package db

import "gorm.io/gorm"

// EnsureSchema creates the Postgres schema if it does not exist yet.
// Module Init() calls this before AutoMigrate so table names can be
// schema-qualified.
func EnsureSchema(d *gorm.DB, schema string) error {
	return d.Exec(`CREATE SCHEMA IF NOT EXISTS "` + schema + `"`).Error
}
