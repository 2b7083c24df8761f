package models

import "github.com/google/uuid"

// newID returns a new random UUID string used as primary key.
func newID() string {
	return uuid.NewString()
}

// assignID sets id to a new UUID if it is empty.
func assignID(id *string) {
	if *id == "" {
		*id = newID()
	}
}
