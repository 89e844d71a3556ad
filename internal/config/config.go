// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// StructuredConfig is the top-level configuration container of the sync
// bridge. It is populated by merging values from environment variables,
// command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env:       direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds process-level settings: version, user scope and UI mode.
	App App `envPrefix:"APP_"`

	// Storage holds the location of local stores.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the listen address of the action endpoint.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the remote sync API endpoint used by the sync engine.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds dispatcher worker settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Version is the version string exposed via /api/version.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// UserID scopes non-global stores to the current user.
	// Env: APP_USER_ID
	UserID int64 `env:"USER_ID"`

	// CommunityID further scopes non-global stores, when set.
	// Env: APP_COMMUNITY_ID
	CommunityID string `env:"COMMUNITY_ID"`

	// TUI enables the terminal progress monitor. Logs then go to LogFile.
	// Env: APP_TUI
	TUI bool `env:"TUI"`

	// LogFile is where logs are written in TUI mode.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`
}

// Storage groups local store settings.
type Storage struct {
	// Dir is the root directory holding global and per-user store files.
	// Env: STORAGE_DIR
	Dir string `env:"DIR"`

	// DefaultStoreName is used when an action does not name a store.
	// Env: STORAGE_DEFAULT_STORE_NAME
	DefaultStoreName string `env:"DEFAULT_STORE_NAME"`
}

// Server holds settings of the inbound HTTP transport.
type Server struct {
	// HTTPAddress is the TCP address the action endpoint listens on,
	// in "host:port" format.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds how long a request waits for an action outcome.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds settings of the remote sync API client.
type Adapter struct {
	// HTTPAddress is the base address of the remote sync API.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the timeout of a single remote call.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Token is sent as a bearer token on every remote call.
	// Env: ADAPTER_TOKEN
	Token string `env:"TOKEN"`
}

// Workers holds dispatcher settings.
type Workers struct {
	// PoolSize is the number of dispatcher goroutines. Actions still run one
	// at a time; extra workers only pick up queued jobs sooner.
	// Env: WORKERS_POOL_SIZE
	PoolSize int `env:"POOL_SIZE"`
}

const (
	defaultStorageDir     = "data"
	defaultStoreName      = "smartstore"
	defaultRequestTimeout = 30 * time.Second
	defaultPoolSize       = 1
	defaultLogFileName    = "syncbridge.log"
)

// GetStructuredConfig loads, merges, defaults and validates the configuration
// from all available sources in the following priority order (last source
// wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(os.Args[1:]).
		withJSON().
		build()
}
