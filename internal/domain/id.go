package domain

import "github.com/google/uuid"

// CheckID returns ErrNotFound unless id is a UUID.
func CheckID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	return nil
}
