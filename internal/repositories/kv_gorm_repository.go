package repositories

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVEntry is the database row backing one key of the GORM key-value store.
type KVEntry struct {
	Key   string `gorm:"primaryKey;type:varchar(255)"`
	Value string `gorm:"type:text"`
}

// GORMKVStore is a GORM implementation of KVStore.
type GORMKVStore struct {
	db *gorm.DB
}

// NewGORMKVStore creates a new instance of GORMKVStore.
func NewGORMKVStore(db *gorm.DB) *GORMKVStore {
	return &GORMKVStore{
		db: db,
	}
}

// Get returns the value stored under key, and whether it was present.
func (s *GORMKVStore) Get(key string) (string, bool, error) {
	var entry KVEntry
	if err := s.db.First(&entry, "key = ?", key).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return entry.Value, true, nil
}

// Set stores value under key, overwriting any previous value.
func (s *GORMKVStore) Set(key, value string) error {
	entry := KVEntry{Key: key, Value: value}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Remove deletes the key. Removing a missing key is not an error.
func (s *GORMKVStore) Remove(key string) error {
	if err := s.db.Delete(&KVEntry{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to remove key %s: %w", key, err)
	}
	return nil
}

// Keys returns all stored keys with the given prefix.
func (s *GORMKVStore) Keys(prefix string) ([]string, error) {
	var keys []string
	if err := s.db.Model(&KVEntry{}).Where("key LIKE ?", prefix+"%").Pluck("key", &keys).Error; err != nil {
		return nil, fmt.Errorf("failed to list keys with prefix %s: %w", prefix, err)
	}
	return keys, nil
}
