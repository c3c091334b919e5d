package migration

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/videocc/videocc/internal/infrastructure/persistence/models"
	"github.com/videocc/videocc/internal/shared/logger"
)

const (
	StrategyGoose         = "goose"
	StrategyGolangMigrate = "golang-migrate"
	StrategyAutoMigrate   = "auto"

	dialectMySQL  = "mysql"
	dialectSQLite = "sqlite3"
)

// Strategy defines the interface for different migration strategies
type Strategy interface {
	// Migrate brings the schema up to date
	Migrate(db *gorm.DB) error
	// GetName returns the strategy name
	GetName() string
}

// Reversible strategies can also roll back and report their version.
type Reversible interface {
	Strategy
	MigrateDown(db *gorm.DB, steps int) error
	GetVersion(db *gorm.DB) (int64, bool, error)
}

// NewStrategy resolves a strategy by name.
func NewStrategy(name string, log logger.Interface) (Strategy, error) {
	switch name {
	case "", StrategyGoose:
		return NewGooseStrategy(log), nil
	case StrategyGolangMigrate:
		return NewGolangMigrateStrategy(log), nil
	case StrategyAutoMigrate:
		return NewAutoMigrateStrategy(log), nil
	default:
		return nil, fmt.Errorf("unknown migration strategy: %s", name)
	}
}

// dialectOf maps the gorm dialector to the goose dialect name.
func dialectOf(db *gorm.DB) (string, error) {
	switch db.Dialector.Name() {
	case "mysql":
		return dialectMySQL, nil
	case "sqlite":
		return dialectSQLite, nil
	default:
		return "", fmt.Errorf("unsupported database dialect: %s", db.Dialector.Name())
	}
}

// AutoMigrateStrategy runs gorm AutoMigrate over every model. Development only.
type AutoMigrateStrategy struct {
	logger logger.Interface
}

func NewAutoMigrateStrategy(log logger.Interface) *AutoMigrateStrategy {
	return &AutoMigrateStrategy{logger: log.With("component", "migration.auto")}
}

func (s *AutoMigrateStrategy) Migrate(db *gorm.DB) error {
	all := models.All()
	s.logger.Infow("starting gorm auto migration", "models_count", len(all))
	if err := db.AutoMigrate(all...); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}

func (s *AutoMigrateStrategy) GetName() string {
	return StrategyAutoMigrate
}

type GooseStrategy struct {
	logger logger.Interface
}

func NewGooseStrategy(log logger.Interface) *GooseStrategy {
	return &GooseStrategy{logger: log.With("component", "migration.goose")}
}

// prepare points goose at the embedded scripts for the database dialect.
func (s *GooseStrategy) prepare(db *gorm.DB) (string, error) {
	dialect, err := dialectOf(db)
	if err != nil {
		return "", err
	}
	goose.SetBaseFS(Scripts)
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return gooseDir(dialect), nil
}

func (s *GooseStrategy) Migrate(db *gorm.DB) error {
	dir, err := s.prepare(db)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	currentVersion, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		s.logger.Errorw("failed to get current version", "error", err)
		return fmt.Errorf("failed to get current version: %w", err)
	}

	s.logger.Infow("current migration status", "version", currentVersion, "dir", dir)

	if err := goose.Up(sqlDB, dir); err != nil {
		s.logger.Errorw("migration failed", "error", err)
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	finalVersion, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return fmt.Errorf("failed to get final version: %w", err)
	}

	s.logger.Infow("migration completed successfully",
		"from_version", currentVersion,
		"to_version", finalVersion)

	return nil
}

func (s *GooseStrategy) GetName() string {
	return StrategyGoose
}

func (s *GooseStrategy) MigrateDown(db *gorm.DB, steps int) error {
	dir, err := s.prepare(db)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	s.logger.Infow("starting down migration", "steps", steps)
	for i := 0; i < steps; i++ {
		if err := goose.Down(sqlDB, dir); err != nil {
			s.logger.Errorw("down migration failed", "error", err)
			return fmt.Errorf("failed to run down migration: %w", err)
		}
	}

	s.logger.Infow("down migration completed successfully")
	return nil
}

// GetVersion reports the applied version. Goose never leaves a dirty state.
func (s *GooseStrategy) GetVersion(db *gorm.DB) (int64, bool, error) {
	if _, err := s.prepare(db); err != nil {
		return 0, false, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	version, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return 0, false, fmt.Errorf("failed to get version: %w", err)
	}
	return version, false, nil
}

// Status prints the applied and pending migrations through the goose logger.
func (s *GooseStrategy) Status(db *gorm.DB) error {
	dir, err := s.prepare(db)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := goose.Status(sqlDB, dir); err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}
	return nil
}

// GolangMigrateStrategy applies the up/down pairs with golang-migrate. MySQL only.
type GolangMigrateStrategy struct {
	logger logger.Interface
}

func NewGolangMigrateStrategy(log logger.Interface) *GolangMigrateStrategy {
	return &GolangMigrateStrategy{logger: log.With("component", "migration.golang-migrate")}
}

func (s *GolangMigrateStrategy) GetName() string {
	return StrategyGolangMigrate
}

func (s *GolangMigrateStrategy) createMigrateInstance(db *gorm.DB) (*migrate.Migrate, error) {
	if dialect, err := dialectOf(db); err != nil || dialect != dialectMySQL {
		return nil, fmt.Errorf("golang-migrate strategy requires mysql, got %s", db.Dialector.Name())
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	driver, err := mysql.WithInstance(sqlDB, &mysql.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create MySQL driver: %w", err)
	}

	source, err := iofs.New(Scripts, golangMigrateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded scripts: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "mysql", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

func (s *GolangMigrateStrategy) Migrate(db *gorm.DB) error {
	m, err := s.createMigrateInstance(db)
	if err != nil {
		return err
	}

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	s.logger.Infow("current migration status", "version", currentVersion, "dirty", dirty)

	if dirty {
		s.logger.Warnw("database is in dirty state, please fix manually")
		return fmt.Errorf("database is in dirty state at version %d", currentVersion)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		s.logger.Errorw("migration failed", "error", err)
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	finalVersion, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get final migration version: %w", err)
	}

	s.logger.Infow("migration completed successfully",
		"from_version", currentVersion,
		"to_version", finalVersion)
	return nil
}

func (s *GolangMigrateStrategy) MigrateDown(db *gorm.DB, steps int) error {
	m, err := s.createMigrateInstance(db)
	if err != nil {
		return err
	}

	s.logger.Infow("starting down migration", "steps", steps)
	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		s.logger.Errorw("down migration failed", "error", err)
		return fmt.Errorf("failed to run down migrations: %w", err)
	}
	return nil
}

func (s *GolangMigrateStrategy) GetVersion(db *gorm.DB) (int64, bool, error) {
	m, err := s.createMigrateInstance(db)
	if err != nil {
		return 0, false, err
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return int64(version), dirty, nil
}
