package models

import "time"

// User is the locally provisioned record behind an identity-provider
// account. PrimaryID is the identifier assigned by the identity provider;
// ID is the local row id. Delegated storage-token subjects are derived
// from PrimaryID, never from ID.
type User struct {
	ID           string
	PrimaryID    string
	Email        string
	PasswordHash []byte
	Salt         []byte
	CreatedAt    time.Time
}
