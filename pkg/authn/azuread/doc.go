// Package azuread implements the Azure AD (Microsoft Entra ID) OAuth 2.0
// authorization code flow for single sign-on. It builds authorization URLs,
// exchanges authorization codes for ID tokens against the v2.0 token
// endpoint, and validates ID token signatures against the tenant's published
// signing keys.
package azuread
