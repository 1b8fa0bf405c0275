// Package config loads the vitrine configuration file.
package config
