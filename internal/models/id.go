package models

import "github.com/google/uuid"

// newID returns a time-ordered UUID string used as an opaque primary key.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ensureID assigns a fresh id when the record has none yet.
func ensureID(id *string) {
	if *id == "" {
		*id = newID()
	}
}
