package engine

import "github.com/google/uuid"

// generateID creates a random session id.
func generateID() string {
	return uuid.NewString()
}
