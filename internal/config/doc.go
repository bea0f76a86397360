// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// Binaries load a .env file first, so secrets such as the database password and
// the SEC contact User-Agent can live outside the YAML file.
package config
