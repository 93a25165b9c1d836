package utils

import "github.com/google/uuid"

// NewID returns a prefixed UUID, e.g. "local-5e0c…".
func NewID(prefix string) string {
	id := uuid.NewString()
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}
