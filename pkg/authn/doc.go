// Package authn provides credential handling for interactive logins:
// bcrypt password hashing and verification, and generation of initial
// passwords for provisioned users.
package authn
