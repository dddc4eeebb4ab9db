package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/sharetube/frequency/internal/repository/user"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// userRecord is keyed by the lower-cased username so that "Alice" and
// "alice" are one account.
type userRecord struct {
	UsernameKey  string `gorm:"primaryKey"`
	Username     string `gorm:"not null"`
	PasswordHash string `gorm:"not null"`
	Avatar       string
	CreatedAt    time.Time
}

func (userRecord) TableName() string {
	return "users"
}

func (r userRecord) toUser() user.User {
	return user.User{
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Avatar:       r.Avatar,
		CreatedAt:    r.CreatedAt,
	}
}

// Open opens the database at path and migrates the schema.
func Open(path string) (*gorm.DB, error) {
	if path == "" {
		return nil, errors.New("database path is required")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&userRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

type repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *repo {
	return &repo{db: db}
}

func key(username string) string {
	return strings.ToLower(username)
}

func (r repo) CreateUser(ctx context.Context, params *user.CreateUserParams) (user.User, error) {
	record := userRecord{
		UsernameKey:  key(params.Username),
		Username:     params.Username,
		PasswordHash: params.PasswordHash,
		Avatar:       params.Avatar,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&userRecord{}).Where("username_key = ?", record.UsernameKey).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return user.ErrUserAlreadyExists
		}

		return tx.Create(&record).Error
	})
	if err != nil {
		if errors.Is(err, user.ErrUserAlreadyExists) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return user.User{}, user.ErrUserAlreadyExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return record.toUser(), nil
}

func (r repo) GetUser(ctx context.Context, username string) (user.User, error) {
	var record userRecord
	if err := r.db.WithContext(ctx).Where("username_key = ?", key(username)).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	return record.toUser(), nil
}
