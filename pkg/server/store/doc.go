// Package store provides storage abstractions for the Kantoor server.
//
// This package defines interfaces for database operations, allowing the
// server endpoints to be decoupled from the specific database implementation.
// This enables easier testing with mocks and potential support for different
// storage backends.
//
// # Available Stores
//
//   - OrgsStore: tenant provisioning and lookup
//   - UsersStore: login principals and role assignment
//   - RolesStore: capability roles per organization
//   - PeopleStore: HR directory records
//   - TeamsStore: teams and chart layout
//   - AssetsStore: hardware inventory, assignments and events
//   - SecurityStore: frameworks, controls, SoA, risks, evidence
//   - DocsStore: documents, versions, rollouts, acknowledgments
//   - WorkflowsStore: workflow templates, instances and steps
//   - HealthStore: connectivity checks
//
// # Usage
//
//	people := gorm.NewPeopleStore(db)
//	person, err := people.GetPerson(orgID, id)
//	if err != nil {
//	    if errors.Is(err, store.ErrPersonNotFound) {
//	        // Handle not found
//	    }
//	}
package store
