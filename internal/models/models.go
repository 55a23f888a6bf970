// Package models defines the data structures shared across the service.
package models

// User is a registered account as stored by the surrounding CRUD
// application. The relay only ever reads it.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Identity is the outcome of validating a bearer credential. The zero
// value is Anonymous.
type Identity struct {
	Authenticated bool
	UserID        int64
	Username      string
}

// Anonymous is the identity of a guest participant.
var Anonymous = Identity{}
