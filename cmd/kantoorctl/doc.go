// Package main implements kantoorctl, the Kantoor server and administration
// CLI.
//
// Kantoor is a company operating system backend: HR records, teams, hardware
// inventory, security compliance, controlled documents and workflow
// checklists behind one capability-gated REST API.
//
// # Quick Start
//
//	# Run database migrations
//	kantoorctl db migrate
//
//	# Provision a tenant (prints the initial admin password)
//	kantoorctl org create acme --domain acme.example
//
//	# Start the server
//	kantoorctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - AUDIT_DATABASE_URL: separate audit database (optional)
//   - KANTOOR_CONFIG_PATH: config file location (default /etc/kantoor/config/kantoor.yml)
//   - KANTOOR_LOG_LEVEL: log level (debug, info, warn, error)
//   - PORT: server port (default: 8000)
//
// For the full configuration surface, run kantoorctl configuration show.
package main
