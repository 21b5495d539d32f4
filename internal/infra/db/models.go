package db

import (
	"errors"
	"time"
)

var errDBUnavailable = errors.New("db unavailable")

// KVEntryModel is one store key. Namespace lets several consoles share a database.
type KVEntryModel struct {
	Namespace string    `gorm:"column:namespace;primaryKey"`
	Key       string    `gorm:"column:entry_key;primaryKey"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (KVEntryModel) TableName() string {
	return "kv_entries"
}
