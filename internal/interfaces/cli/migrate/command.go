package migrate

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"tably/internal/infrastructure/config"
	"tably/internal/infrastructure/database"
	"tably/internal/infrastructure/migration"
	"tably/internal/shared/logger"
)

var (
	env   string
	name  string
	steps int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running migrations, checking status, and creating new migration files.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE:  runStatus,
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		RunE:  runCreate,
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func initEnv(needDB bool) (*migration.GooseRunner, *gorm.DB, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	scriptsPath, err := filepath.Abs("./internal/infrastructure/migration/scripts")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get scripts path: %w", err)
	}

	runner := migration.NewGooseRunner(scriptsPath, logger.NewLogger())

	if !needDB {
		return runner, nil, nil
	}

	db, err := database.Connect(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return runner, db, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	runner, db, err := initEnv(true)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if err := runner.Up(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	runner, db, err := initEnv(true)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if err := runner.Down(db, steps); err != nil {
		return fmt.Errorf("down migration failed: %w", err)
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	runner, db, err := initEnv(true)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	version, err := runner.Version(db)
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	fmt.Printf("\nMigration Status:\n")
	fmt.Printf("  Environment:     %s\n", env)
	fmt.Printf("  Current Version: %d\n", version)

	if err := runner.Status(db); err != nil {
		return fmt.Errorf("failed to get detailed status: %w", err)
	}
	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	runner, _, err := initEnv(false)
	if err != nil {
		return err
	}

	if err := runner.Create(name); err != nil {
		return fmt.Errorf("failed to create migration: %w", err)
	}

	fmt.Printf("Migration '%s' created successfully\n", name)
	return nil
}
