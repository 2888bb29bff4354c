// services/errors.go - Domain error taxonomy
package services

import "errors"

// Sentinel errors returned by the progression services. Handlers map
// these to HTTP status codes; the services themselves never touch
// transport concerns.
var (
	// ErrNotFound covers both missing entities and entities that do not
	// belong to the caller.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyCompleted signals re-entry on a terminal task transition.
	ErrAlreadyCompleted = errors.New("task already completed")

	// ErrNotClaimable signals a gate claim that cannot proceed: already
	// cleared, empty task set, or incomplete member tasks.
	ErrNotClaimable = errors.New("gate not claimable")

	// ErrRaidAlreadyActive signals a raid start while one is running.
	ErrRaidAlreadyActive = errors.New("guild already has an active raid")

	// ErrRaidNotActive signals an operation against a cleared raid.
	ErrRaidNotActive = errors.New("raid is not active")

	// ErrPreconditionFailed covers invalid input states (bad rank, bad
	// difficulty, non-member target, non-positive HP).
	ErrPreconditionFailed = errors.New("precondition failed")
)
