// Package config loads runtime configuration from a YAML file, environment
// variables and CLI flags with precedence: CLI flags > YAML config >
// Environment variables > Defaults. It resolves pack settings, the data
// directory holding the catalog and templates, the session database and
// logging options.
package config
