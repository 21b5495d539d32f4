package db

import (
	"context"
	"fmt"
	"strings"

	"tenantd/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Store struct {
	DB *gorm.DB
}

func NewStore(cfg config.Config) (*Store, error) {
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required")
	}
	gdb, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{DB: gdb}, nil
}

// Migrate creates the kv_entries table when it is missing.
func (s *Store) Migrate(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return errDBUnavailable
	}
	return s.DB.WithContext(ctx).AutoMigrate(&KVEntryModel{})
}

func (s *Store) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
