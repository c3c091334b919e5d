package db

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ForUpdate locks the selected rows until the surrounding transaction ends.
// Dialects without row locks (SQLite) ignore it.
func ForUpdate() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
}

// Since keeps rows whose column is at or after t.
func Since(column string, t time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" >= ?", t)
	}
}
