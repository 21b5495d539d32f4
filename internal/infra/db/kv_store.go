package db

import (
	"context"
	"errors"
	"time"

	"tenantd/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KVStore struct {
	db        *gorm.DB
	namespace string
	now       func() time.Time
}

func NewKVStore(db *gorm.DB, namespace string) *KVStore {
	return &KVStore{db: db, namespace: namespace, now: time.Now}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.db == nil {
		return "", false, errDBUnavailable
	}
	var model KVEntryModel
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND entry_key = ?", s.namespace, key).
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return model.Value, true, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	if s.db == nil {
		return errDBUnavailable
	}
	model := KVEntryModel{
		Namespace: s.namespace,
		Key:       key,
		Value:     value,
		UpdatedAt: s.now().UTC(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model).Error
}

func (s *KVStore) Remove(ctx context.Context, key string) error {
	if s.db == nil {
		return errDBUnavailable
	}
	return s.db.WithContext(ctx).
		Where("namespace = ? AND entry_key = ?", s.namespace, key).
		Delete(&KVEntryModel{}).Error
}

var _ domain.Store = (*KVStore)(nil)
