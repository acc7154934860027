package storage

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/stockrec-portal/internal/common"
	"github.com/bobmcallan/stockrec-portal/internal/config"
	"github.com/bobmcallan/stockrec-portal/internal/interfaces"
	"github.com/bobmcallan/stockrec-portal/internal/storage/badger"
	"github.com/bobmcallan/stockrec-portal/internal/storage/sqlite"
)

// NewStorageManager creates a new storage manager based on config.
func NewStorageManager(logger *common.Logger, cfg *config.Config) (interfaces.StorageManager, error) {
	switch strings.ToLower(cfg.Storage.Backend) {
	case "", "badger":
		return badger.NewManager(logger, &cfg.Storage.Badger)
	case "sqlite":
		return sqlite.NewManager(logger, &cfg.Storage.SQLite)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
