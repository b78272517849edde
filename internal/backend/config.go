package backend

import (
	"fmt"
	"time"

	"spendwise/internal/config"
)

// BackendType selects the key-value store implementation.
type BackendType string

const (
	MemoryBackend BackendType = config.BackendMemory
	FileBackend   BackendType = config.BackendFile
	SQLiteBackend BackendType = config.BackendSQLite
)

func (t BackendType) IsValid() bool {
	switch t {
	case MemoryBackend, FileBackend, SQLiteBackend:
		return true
	}
	return false
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	DataDir      string
	SQLiteDBPath string
	SeedDemo     bool

	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	CacheSize int
	CacheTTL  time.Duration

	// Now overrides the clock of the repository and analytics engine.
	Now func() time.Time
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:           backendType,
		DataDir:        appConfig.DataDir,
		SQLiteDBPath:   appConfig.SQLiteDBPath,
		SeedDemo:       appConfig.SeedDemo,
		AMQPURL:        appConfig.AMQPURL,
		AMQPExchange:   appConfig.AMQPExchange,
		AMQPRoutingKey: appConfig.AMQPRoutingKey,
		CacheSize:      appConfig.CacheSize,
		CacheTTL:       appConfig.CacheTTL,
	}, nil
}
