// Package config centralizes environment-based configuration parsing so
// binaries share one loading path.
package config
