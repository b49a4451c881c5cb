// Package config manages the vikunja-mcp configuration file and the
// environment-based fallbacks for instance credentials.
//
// Instances are resolved from three sources in priority order: the config
// file at ~/.vikunja-mcp/config.yaml, the VIKUNJA_INSTANCES environment
// variable (JSON object or array), and finally VIKUNJA_URL/VIKUNJA_TOKEN
// which act as an instance named "default". The file also carries the
// active instance, the per-call context defaults, and the per-instance
// exchange-queue project mapping.
package config
