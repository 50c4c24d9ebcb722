// Package config provides configuration management for Kantoor.
//
// This package handles loading and validating Kantoor server configuration
// from environment variables and configuration files.
//
// # Configuration Sources
//
// Configuration is loaded from:
//
//   - Environment variables (primary, KANTOOR_* prefix)
//   - Configuration file (optional, kantoor.yml under KANTOOR_CONFIG_PATH)
//
// # Key Configuration Options
//
//   - DATABASE_URL: Database connection
//   - KANTOOR_AZURE_TENANT_ID / _CLIENT_ID / _CLIENT_SECRET: Azure AD integration
//   - KANTOOR_SESSION_TTL_HOURS: Login session lifetime
//   - KANTOOR_LOG_LEVEL: Logging verbosity
//   - PORT: Server listen port
package config
