// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "path/filepath"

// applyDefaults fills fields that no source provided.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = defaultStorageDir
	}
	if cfg.Storage.DefaultStoreName == "" {
		cfg.Storage.DefaultStoreName = defaultStoreName
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Workers.PoolSize == 0 {
		cfg.Workers.PoolSize = defaultPoolSize
	}
	if cfg.App.LogFile == "" {
		cfg.App.LogFile = filepath.Join(cfg.Storage.Dir, "logs", defaultLogFileName)
	}
}

// validate checks that the merged and defaulted [StructuredConfig] can be
// used at startup. It returns one of the sentinel errors from errors.go.
func (cfg *StructuredConfig) validate() error {
	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout < 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout < 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Storage.Dir == "" || cfg.Storage.DefaultStoreName == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Workers.PoolSize < 1 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.App.UserID < 0 {
		return ErrInvalidAppConfigs
	}

	return nil
}
