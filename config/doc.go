// Package config implements configuration loading for the Genesis service.
//
// Configuration is resolved in three layers, later layers overriding earlier
// ones: built-in defaults, an optional YAML file, and environment variables
// prefixed with GENESIS (e.g. GENESIS_SERVER_HTTP_PORT, GENESIS_LLM_BASE_URL).
package config
