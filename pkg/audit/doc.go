// Package audit provides audit logging for Kantoor operations.
//
// This package implements structured audit logging for security-relevant
// operations such as logins, asset custody changes, device sync runs,
// workflow transitions and account administration.
//
// # Event Types
//
//   - AuthenticateEvent: local and SSO login attempts
//   - AssetAssignEvent: assets changing hands
//   - SyncEvent: Intune device sync runs with their counters
//   - WorkflowEvent: step and instance transitions
//   - DocumentEvent: publishes, rollouts and acknowledgments
//   - UserEvent: account creation, role changes, disabling
//
// # Output
//
// Events stream to stdout in RFC5424 syslog format and, when a store is
// wired in, persist to the audit_events table for the GET /api/audit
// endpoint. KANTOOR_AUDIT_ENABLED=false turns both off.
package audit
