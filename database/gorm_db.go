package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/storyforge/storyboardbackend/models"
)

// Task/archive status constants shared by image rows and gallery zips.
const (
	StatusNotRequired = "not_required"
	StatusPending     = "pending"
	StatusProcessing  = "processing"
	StatusDone        = "done"
	StatusError       = "error"
)

// InitGormDB initializes and returns a GORM database instance.
// The default DSN is an in-memory shared-cache database; in that case the
// pool must be pinned to a single connection or each new connection would
// see an empty schema.
func InitGormDB(dataSourceName string) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database using GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}

	if IsInMemory(dataSourceName) {
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	log.Println("GORM Database initialized successfully at", dataSourceName)
	return db, nil
}

// IsInMemory reports whether the DSN describes a memory-backed sqlite
// database (":memory:" or a file: DSN with mode=memory / ::memory:).
func IsInMemory(dataSourceName string) bool {
	return dataSourceName == ":memory:" ||
		strings.Contains(dataSourceName, ":memory:") ||
		strings.Contains(dataSourceName, "mode=memory")
}

// AutoMigrateModels can be called after InitGormDB to migrate schemas
func AutoMigrateModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Project{},
		&models.Video{},
		&models.Context{},
		&models.Frame{},
		&models.Chat{},
		&models.Message{},
		&models.Image{},
		&models.Character{},
		&models.FrameImage{},
		&models.ContextImage{},
		&models.ChatImage{},
		&models.GalleryImage{},
		&models.CharacterImage{},
	)
	if err != nil {
		return fmt.Errorf("GORM AutoMigrate failed: %w", err)
	}
	log.Println("GORM AutoMigrate completed successfully.")
	return nil
}
