// Package sqlite is the gorm/SQLite implementation of the portal's KV storage.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bobmcallan/stockrec-portal/internal/common"
	"github.com/bobmcallan/stockrec-portal/internal/config"
	"github.com/bobmcallan/stockrec-portal/internal/interfaces"
)

// KVEntry is one row of the kv_entries table.
type KVEntry struct {
	Key   string `gorm:"column:kv_key;primaryKey;size:255"`
	Value string `gorm:"column:kv_value;type:text"`
}

// TableName pins the table name.
func (KVEntry) TableName() string {
	return "kv_entries"
}

// Manager implements interfaces.StorageManager on SQLite.
type Manager struct {
	db     *gorm.DB
	kv     *KVStorage
	logger *common.Logger
}

// NewManager opens the database at cfg.Path and migrates the schema.
func NewManager(logger *common.Logger, cfg *config.SQLiteConfig) (interfaces.StorageManager, error) {
	if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.AutoMigrate(&KVEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
	}

	logger.Info().Str("path", cfg.Path).Msg("SQLite storage initialized")

	return &Manager{
		db:     db,
		kv:     &KVStorage{db: db},
		logger: logger,
	}, nil
}

// KeyValueStorage returns the KeyValue storage interface.
func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage {
	return m.kv
}

// Backend names the storage engine.
func (m *Manager) Backend() string {
	return "sqlite"
}

// Close closes the underlying connection pool.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// KVStorage implements interfaces.KeyValueStorage using gorm.
type KVStorage struct {
	db *gorm.DB
}

// Get retrieves a value by key. Missing keys wrap interfaces.ErrNotFound.
func (s *KVStorage) Get(ctx context.Context, key string) (string, error) {
	var entry KVEntry
	err := s.db.WithContext(ctx).Where("kv_key = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: %s", interfaces.ErrNotFound, key)
		}
		return "", fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return entry.Value, nil
}

// Set stores a key-value pair.
func (s *KVStorage) Set(ctx context.Context, key, value string) error {
	entry := KVEntry{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kv_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"kv_value"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Delete removes a key-value pair. Deleting a missing key is not an error.
func (s *KVStorage) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("kv_key = ?", key).Delete(&KVEntry{}).Error; err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// GetAll retrieves all key-value pairs.
func (s *KVStorage) GetAll(ctx context.Context) (map[string]string, error) {
	var entries []KVEntry
	if err := s.db.WithContext(ctx).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to get all keys: %w", err)
	}
	result := make(map[string]string, len(entries))
	for _, e := range entries {
		result[e.Key] = e.Value
	}
	return result, nil
}
