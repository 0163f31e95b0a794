package repository

import "errors"

// Sentinel errors for invariant violations detected by the storage
// layer. Services translate these into the domain error taxonomy.
var (
	// ErrDuplicateOpen: an insert hit the unique open-row marker, so
	// an open session or break already exists.
	ErrDuplicateOpen = errors.New("duplicate open row")
	// ErrStale: a conditional update matched zero rows because the row
	// was no longer in the expected state.
	ErrStale = errors.New("row not in expected state")
	// ErrNoOpenSession: an override approval tried to clock out a user
	// who has no open session.
	ErrNoOpenSession = errors.New("no open session")
)
