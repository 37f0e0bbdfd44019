package store

import (
	"fmt"
	"os"
	"strings"
)

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverPostgres = "postgres"
)

func driverFromEnv() string {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv("STORE_DRIVER")))
	switch raw {
	case "", DriverSQLite, "local":
		return DriverSQLite
	case DriverPostgres, "db":
		return DriverPostgres
	case DriverMemory, "mem":
		return DriverMemory
	default:
		return raw
	}
}

// NewFromEnv selects a backend by STORE_DRIVER (sqlite by default, mirroring
// auth's AUTH_MODE idiom).
func NewFromEnv() (Store, string, error) {
	driver := driverFromEnv()
	switch driver {
	case DriverPostgres:
		s, err := NewPostgresStoreFromEnv()
		if err != nil {
			return nil, driver, err
		}
		return s, driver, nil
	case DriverSQLite:
		s, err := NewSQLiteStoreFromEnv()
		if err != nil {
			return nil, driver, err
		}
		return s, driver, nil
	case DriverMemory:
		return NewMemoryStore(), driver, nil
	default:
		return nil, driver, fmt.Errorf("invalid STORE_DRIVER %q (supported: %s, %s, %s)", driver, DriverMemory, DriverSQLite, DriverPostgres)
	}
}
