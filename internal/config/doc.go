// Package config handles configuration loading, parsing, and validation
// from environment variables, an optional .env file and an optional YAML
// config file. Environment variables use the VERBA_ prefix, with dots in
// keys replaced by underscores (server.port becomes VERBA_SERVER_PORT).
package config
