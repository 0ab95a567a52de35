package database

import (
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/launch6/linkinbio-sub000/app/models"
	"github.com/launch6/linkinbio-sub000/internal/pkg/env"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

var (
	db       *gorm.DB
	initOnce sync.Once
	initErr  error
)

// Connect establishes the process-wide database handle exactly once,
// regardless of how many cold-start requests race into it, and runs the
// schema migration. Subsequent calls return the first outcome.
func Connect() error {
	initOnce.Do(func() {
		initErr = connect()
	})
	return initErr
}

func connect() error {
	// "user:pass@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local"
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)

	var err error
	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                       dsn,
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		}), &gorm.Config{
			// Duplicate-key errors surface as gorm.ErrDuplicatedKey; the
			// webhook dedupe path relies on that.
			TranslateError: true,
		})
		if err == nil {
			return db.AutoMigrate(
				&models.Profile{},
				&models.Product{},
				&models.Subscriber{},
				&models.Event{},
				&models.WebhookEvent{},
			)
		}

		log.Printf("Failed to connect to database (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	return err
}

// GetDB returns the shared handle; nil until Connect has succeeded.
func GetDB() *gorm.DB {
	return db
}
