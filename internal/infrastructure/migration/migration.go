package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/customerly-inc/customerly/internal/shared/logger"
)

// Strategy applies the schema to a database.
type Strategy interface {
	Migrate(db *gorm.DB, models ...interface{}) error
	GetName() string
}

// GormAutoMigrateStrategy creates and widens tables from the model structs.
// It never drops columns.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy() Strategy {
	return &GormAutoMigrateStrategy{
		logger: logger.WithComponent("migration.gorm"),
	}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB, models ...interface{}) error {
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", m, err)
		}
		s.logger.Debugw("model migrated", "model", fmt.Sprintf("%T", m))
	}
	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}

// Manager handles database migrations with a pluggable strategy
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

func NewManager() *Manager {
	return NewManagerWithStrategy(NewGormAutoMigrateStrategy())
}

func NewManagerWithStrategy(strategy Strategy) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   logger.WithComponent("migration.manager"),
	}
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(db *gorm.DB, models ...interface{}) error {
	m.logger.Infow("starting database migration",
		"strategy", m.strategy.GetName(),
		"models_count", len(models))

	if err := m.strategy.Migrate(db, models...); err != nil {
		m.logger.Errorw("migration failed",
			"strategy", m.strategy.GetName(),
			"error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully",
		"strategy", m.strategy.GetName())
	return nil
}

// Run migrates every model the service owns.
func Run(db *gorm.DB) error {
	return NewManager().Migrate(db, AutoMigrateModels()...)
}

// TableStatus reports whether a model's table exists.
type TableStatus struct {
	Table  string
	Exists bool
}

// Status lists every owned table in migration order.
func Status(db *gorm.DB) ([]TableStatus, error) {
	models := AutoMigrateModels()
	out := make([]TableStatus, 0, len(models))
	for _, m := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return nil, fmt.Errorf("failed to parse %T: %w", m, err)
		}
		out = append(out, TableStatus{
			Table:  stmt.Schema.Table,
			Exists: db.Migrator().HasTable(m),
		})
	}
	return out, nil
}
