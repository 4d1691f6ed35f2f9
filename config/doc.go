// Package config loads the docweaver server configuration from a YAML or
// TOML file. The format follows the file extension; files without one are
// read as TOML.
package config
