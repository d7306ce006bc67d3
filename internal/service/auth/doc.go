// Package auth verifies the bearer tokens that authenticate API requests.
// Tokens are issued elsewhere; this package only checks the HS256 signature,
// the time claims and that the subject is a user UUID.
package auth
