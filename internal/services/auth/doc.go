// Package auth logs users in with a password or an OTP, registers new
// accounts and restores the saved session on start-up.
//
// A successful login persists the bearer token and role; the role selects
// the home destination.
package auth
