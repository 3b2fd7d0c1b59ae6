// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Database selects and addresses a gorm database.
type Database struct {
	Driver     string // postgres | sqlite
	URL        string
	Host       string
	User       string
	Password   string
	Name       string
	Port       string
	SQLitePath string
}

// Redis addresses a redis server used as local blob storage.
type Redis struct {
	Host     string
	Port     int
	Password string
	Database int
}

// Config holds settings for the backend server, the local store and the sync adapter.
type Config struct {
	Env  string
	Port string

	DB            Database
	RequireAuth   bool
	AdminEmail    string
	AdminPassword string

	LocalDriver string // sqlite | postgres | redis
	LocalPath   string
	LocalKey    string
	Redis       Redis

	RemoteURL      string
	RemoteEmail    string
	RemotePassword string
	SyncTimeout    time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func boolenv(key string, def bool) bool {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		Env:  getenv("APP_ENV", "production"),
		Port: getenv("PORT", "3000"),
		DB: Database{
			Driver:     strings.ToLower(getenv("DB_DRIVER", "postgres")),
			URL:        getenv("DATABASE_URL", ""),
			Host:       getenv("DB_HOST", "localhost"),
			User:       getenv("DB_USER", "postgres"),
			Password:   getenv("DB_PASSWORD", ""),
			Name:       getenv("DB_NAME", "erp"),
			Port:       getenv("DB_PORT", "5432"),
			SQLitePath: getenv("SQLITE_PATH", "erp-cloud.db"),
		},
		RequireAuth:   boolenv("REQUIRE_AUTH", true),
		AdminEmail:    getenv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getenv("ADMIN_PASSWORD", "admin123"),

		LocalDriver: strings.ToLower(getenv("LOCAL_STORE_DRIVER", "sqlite")),
		LocalPath:   getenv("LOCAL_STORE_PATH", "erp-local.db"),
		LocalKey:    getenv("LOCAL_STORE_KEY", "erp_data"),
		Redis: Redis{
			Host:     getenv("REDIS_HOST", "127.0.0.1"),
			Port:     atoienv("REDIS_PORT", 6379),
			Password: getenv("REDIS_PASSWORD", ""),
			Database: atoienv("REDIS_DB", 0),
		},

		RemoteURL:      strings.TrimRight(getenv("REMOTE_URL", "http://localhost:3000"), "/"),
		RemoteEmail:    getenv("REMOTE_EMAIL", ""),
		RemotePassword: getenv("REMOTE_PASSWORD", ""),
		SyncTimeout:    time.Duration(atoienv("SYNC_TIMEOUT_SEC", 30)) * time.Second,
	}
}

// DSN returns the postgres connection string.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		d.Host, d.User, d.Password, d.Name, d.Port,
	)
}
