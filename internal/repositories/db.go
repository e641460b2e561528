package repositories

import (
	"errors"
	"fmt"
	"log"
	"time"

	"contactdeck/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Sentinel errors shared by all repository implementations. Services match
// on these instead of driver-specific error values.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

const (
	connectAttempts = 5
	connectBaseWait = 500 * time.Millisecond
)

// Connect opens the postgres database and runs migrations. The open is
// retried with bounded backoff so a store that is still coming up does not
// kill the process on the first refused connection.
func Connect(dsn string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	wait := connectBaseWait
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err == nil {
			break
		}
		if attempt < connectAttempts {
			log.Printf("Database not reachable (attempt %d/%d): %v", attempt, connectAttempts, err)
			time.Sleep(wait)
			wait *= 2
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Contact{}); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	log.Println("Successfully connected to database")
	return db, nil
}
