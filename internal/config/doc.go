// Package config provides configuration loading, merging, and validation
// facilities for the sync bridge.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// Defaults are applied after merging; the result is validated before use.
// The main entry point is [GetStructuredConfig].
package config
