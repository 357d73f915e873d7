package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"go-jewel-backoffice/internal/config"
	"go-jewel-backoffice/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the configured database, retrying while it comes up, and
// syncs the schema. It exits the process if the database never answers.
func Connect(cfg config.DBConfig) {
	if cfg.DSN == "" {
		log.Fatal("❌ Error: DB_DSN not found in .env file. Please configure your database.")
	}

	dialector, err := dialectorFor(cfg.Driver, cfg.DSN)
	if err != nil {
		log.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		DB, err = Open(dialector, cfg.LogLevel)
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatal("Failed to connect to database after 5 attempts:", err)
	}
	log.Printf("✅ Successfully connected to %s!", cfg.Driver)

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to sync database schema:", err)
	}
	log.Println("✅ Database Schema Synced!")
}

// Open connects through gorm with a log level and pool settings.
func Open(dialector gorm.Dialector, level string) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "[GORM] ", log.LstdFlags),
			logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logLevel(level),
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table the back office uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Category{},
		&models.Item{},
		&models.GoldRate{},
		&models.Bill{},
		&models.BillItem{},
		&models.OldGoldExchange{},
		&models.Return{},
		&models.AuditLog{},
		&models.PrintJob{},
	)
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "", "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q (use mysql or postgres)", driver)
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	}
	return logger.Warn
}
