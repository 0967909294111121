package cache

import (
	"fmt"

	"waveline/utils"
)

// Store is the key-value surface the waveform cache and download queue persist
// through. Implementations must be safe for concurrent use.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Keys(prefix string) ([]string, error)
	Close() error
}

// NewStore picks a backend from the environment.
func NewStore() (Store, error) {
	driver := utils.GetEnv("CACHE_DRIVER", "sqlite")

	switch driver {
	case "postgres":
		var (
			dbUser = utils.GetEnv("DB_USER", "postgres")
			dbPass = utils.GetEnv("DB_PASS", "")
			dbHost = utils.GetEnv("DB_HOST", "localhost")
			dbPort = utils.GetEnv("DB_PORT", "5432")
			dbName = utils.GetEnv("DB_NAME", "waveline")
		)

		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			dbUser, dbPass, dbHost, dbPort, dbName)

		return NewPostgresStore(dsn)

	case "sqlite":
		return NewSQLiteStore(utils.GetEnv("CACHE_PATH", "waveline.db"))

	case "memory":
		return NewMemoryStore(), nil
	}

	return nil, fmt.Errorf("unknown cache driver: %s", driver)
}
