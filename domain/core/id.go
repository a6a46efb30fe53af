package core

import "github.com/google/uuid"

// RunID identifies one analysis invocation across outputs and the run ledger.
type RunID string

// NewRunID generates a random run identifier.
func NewRunID() RunID {
	return RunID(uuid.New().String())
}

func (id RunID) String() string {
	return string(id)
}
