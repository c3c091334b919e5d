// Package migration applies the schema of the storage collaborator.
package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/videocc/videocc/internal/shared/logger"
)

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

func NewManager(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

// Down rolls back steps migrations when the strategy supports it.
func (m *Manager) Down(db *gorm.DB, steps int) error {
	r, ok := m.strategy.(Reversible)
	if !ok {
		return fmt.Errorf("down migration is not supported by strategy %s", m.strategy.GetName())
	}
	return r.MigrateDown(db, steps)
}

// Version reports the applied schema version when the strategy tracks one.
func (m *Manager) Version(db *gorm.DB) (int64, bool, error) {
	r, ok := m.strategy.(Reversible)
	if !ok {
		return 0, false, fmt.Errorf("version is not tracked by strategy %s", m.strategy.GetName())
	}
	return r.GetVersion(db)
}

func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}
