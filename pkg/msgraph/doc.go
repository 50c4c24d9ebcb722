// Package msgraph is a minimal Microsoft Graph client used to read
// Intune-managed devices. It authenticates with client credentials and
// follows @odata.nextLink pagination.
package msgraph
