package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/videocc/videocc/internal/infrastructure/config"
	"github.com/videocc/videocc/internal/infrastructure/database"
	"github.com/videocc/videocc/internal/infrastructure/migration"
	"github.com/videocc/videocc/internal/shared/logger"
)

var (
	env      string
	strategy string
	steps    int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations: apply pending migrations, roll back, and check status.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&strategy, "strategy", "s", migration.StrategyGoose, "Migration strategy (goose, golang-migrate, auto)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE:  runStatus,
	}
}

func initEnv() (*migration.Manager, logger.Interface, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	s, err := migration.NewStrategy(strategy, log)
	if err != nil {
		return nil, nil, err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return migration.NewManager(s, log), log, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	manager, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running up migrations", "environment", env, "strategy", strategy)
	return manager.Migrate(database.Get())
}

func runDown(cmd *cobra.Command, args []string) error {
	manager, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	if steps < 1 {
		return fmt.Errorf("steps must be at least 1")
	}

	log.Infow("running down migrations", "environment", env, "strategy", strategy, "steps", steps)
	if err := manager.Down(database.Get(), steps); err != nil {
		log.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	manager, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	version, dirty, err := manager.Version(database.Get())
	if err != nil {
		log.Errorw("failed to get migration version", "error", err)
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Environment:     %s\n", env)
	fmt.Fprintf(out, "  Strategy:        %s\n", strategy)
	fmt.Fprintf(out, "  Current Version: %d\n", version)
	fmt.Fprintf(out, "  Dirty:           %t\n", dirty)

	if goose, ok := manager.GetStrategy().(*migration.GooseStrategy); ok {
		if err := goose.Status(database.Get()); err != nil {
			return fmt.Errorf("failed to get detailed status: %w", err)
		}
	}
	return nil
}
