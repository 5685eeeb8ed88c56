// Package config loads the service configuration from environment variables
// (prefix TASKTRACK_), an optional config.yaml and built-in defaults, and
// validates it before any component starts.
package config
