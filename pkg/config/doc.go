// Package config loads typed configuration from the process environment.
//
// Each infrastructure package declares its own Config struct with `env` tags
// (see pkg/pg, pkg/redis, pkg/httpserver). The server composes them and calls
// Load once per struct type; repeated calls return the cached value.
package config
