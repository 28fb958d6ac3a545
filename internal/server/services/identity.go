// Package services contains the application services behind the HTTP
// handlers: session auth, build/comment/like/profile operations, and the
// delegated storage-token issuer.
package services

// Identity is the authenticated principal attached to a request after the
// session token has been verified. A nil *Identity means the request is
// anonymous.
type Identity struct {
	// UserID is the local user record id.
	UserID string
	// PrimaryID is the identifier assigned by the identity provider.
	// Storage-token subjects are derived from it.
	PrimaryID string
	Email     string
}
