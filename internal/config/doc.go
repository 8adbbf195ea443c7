// Package config loads run settings from the environment.
//
// A .env file in the working directory is loaded automatically. Values that
// are already set in the process environment are never overwritten by it.
package config
