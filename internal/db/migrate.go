package db

import (
	"github.com/guialocal/guialocal-backend/internal/docstore"
	"github.com/guialocal/guialocal-backend/pkg/logger"
	"gorm.io/gorm"
)

// Migrate creates the tables the document store needs on conn.
func Migrate(conn *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&docstore.DocumentRecord{},
	}
	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
