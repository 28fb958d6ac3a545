package models

import "time"

// Build is a user-submitted character build.
type Build struct {
	ID             string
	OwnerID        string
	Title          string
	Game           string
	CharacterClass string
	Body           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Comment is a reply attached to a build.
type Comment struct {
	ID        string
	BuildID   string
	AuthorID  string
	Body      string
	CreatedAt time.Time
}

// Like marks that a user liked a build. One row per (build, user) pair.
type Like struct {
	BuildID   string
	UserID    string
	CreatedAt time.Time
}

// Profile is the public face of a user.
type Profile struct {
	UserID      string
	DisplayName string
	Bio         string
	AvatarKey   string
	UpdatedAt   time.Time
}
