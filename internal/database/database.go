package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"ward-rounds/internal/config"
	"ward-rounds/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the configured database. SQLite is the default and keeps the ward state in memory.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.Database)
	if err != nil {
		return nil, err
	}

	// Configure GORM logger
	level := logger.Info
	if cfg.Server.GinMode == "release" {
		level = logger.Error
	}
	gormLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Database.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}

	// Set connection pool settings
	if IsMemorySQLite(cfg.Database) {
		// every connection to :memory: would open its own empty database
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Patient{},
		&models.Device{},
		&models.Medication{},
		&models.Exam{},
		&models.Surgery{},
		&models.CapdScale{},
		&models.Task{},
		&models.ChecklistCompletion{},
		&models.ChecklistAnswer{},
		&models.Staff{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate db: %w", err)
	}
	return nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = ":memory:"
		}
		return sqlite.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.Database,
		)
		return mysql.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
}

// IsMemorySQLite reports whether the store vanishes with the process.
func IsMemorySQLite(cfg config.DatabaseConfig) bool {
	if cfg.Driver != "" && cfg.Driver != "sqlite" {
		return false
	}
	return cfg.DSN == "" || strings.Contains(cfg.DSN, ":memory:") || strings.Contains(cfg.DSN, "mode=memory")
}
