// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// Both binaries (api, worker) share one schema; each reads only the sections it uses.
package config
