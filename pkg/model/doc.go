// Package model defines the database models for Kantoor.
//
// This package contains GORM models that map to the Kantoor PostgreSQL
// schema. Every row except organizations carries an org_id foreign key;
// stores must scope every query by it.
//
// # Core Models
//
//   - Organization: tenant root
//   - Role, User: login accounts and their capability sets
//   - Person, Team: the HR directory and reporting structure
//   - Asset, AssetAssignment, AssetEvent: hardware inventory and its history
//   - Framework, Control, SoAItem, Risk, Evidence: the compliance register
//   - Document, DocumentVersion, Rollout, Acknowledgment: policy documents
//   - WorkflowTemplate, WorkflowInstance, WorkflowStep: checklist runs
//
// Persons, teams, assets and documents are soft-deleted (gorm.DeletedAt);
// uniqueness constraints on them are partial indexes over live rows.
package model
