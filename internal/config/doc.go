// Package config loads runtime configuration from multiple sources (YAML files,
// environment variables, CLI flags) with precedence: CLI flags > YAML config >
// Environment variables > Defaults. The warehouse room layout can be supplied
// inline in the YAML file or as a separate layout file.
package config
