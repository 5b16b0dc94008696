package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"task-flow-api/internal/domain"
)

// AutoMigrate runs GORM auto-migration for all domain models.
// Tables, indexes and foreign key constraints are derived from the
// struct definitions in the domain package.
func AutoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&domain.Project{},
		&domain.ProjectMember{},
		&domain.State{},
		&domain.Workflow{},
		&domain.WorkflowStep{},
		&domain.Transition{},
		&domain.TaskType{},
		&domain.Field{},
		&domain.FieldAssignment{},
		&domain.Task{},
		&domain.TaskFieldValue{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}

	return nil
}

// SafeAutoMigrate migrates one model at a time, logging per table, so a
// single failing table is identifiable on an existing database.
func SafeAutoMigrate(db *gorm.DB, logger *zap.Logger) error {
	migrator := db.Migrator()

	models := []struct {
		model     interface{}
		tableName string
	}{
		{&domain.Project{}, "projects"},
		{&domain.ProjectMember{}, "project_members"},
		{&domain.State{}, "states"},
		{&domain.Workflow{}, "workflows"},
		{&domain.WorkflowStep{}, "workflow_steps"},
		{&domain.Transition{}, "transitions"},
		{&domain.TaskType{}, "task_types"},
		{&domain.Field{}, "fields"},
		{&domain.FieldAssignment{}, "field_assignments"},
		{&domain.Task{}, "tasks"},
		{&domain.TaskFieldValue{}, "task_field_values"},
	}

	for _, m := range models {
		existed := migrator.HasTable(m.model)
		if err := db.AutoMigrate(m.model); err != nil {
			logger.Error("Failed to migrate table",
				zap.String("table", m.tableName),
				zap.Bool("table_existed", existed),
				zap.Error(err),
			)
			return fmt.Errorf("failed to migrate table %s: %w", m.tableName, err)
		}
		logger.Info("Migrated table",
			zap.String("table", m.tableName),
			zap.Bool("was_existing", existed),
		)
	}

	return nil
}
