package sim

import "errors"

var (
	// ErrInsufficientCapacity is returned when no host can admit a VM at creation time.
	// The VM is reported as unplaced; the run continues for the others.
	ErrInsufficientCapacity = errors.New("insufficient capacity")

	// ErrEmptyQueue is returned when dispatch is attempted on an empty event queue.
	// Seeing it from the event loop means a logic bug, not a user error.
	ErrEmptyQueue = errors.New("event queue is empty")

	// ErrInvalidRebinding is returned when a cloudlet's VM binding is changed after
	// it has entered execution. The original binding is kept.
	ErrInvalidRebinding = errors.New("cloudlet binding is immutable once in execution")

	ErrUnknownCloudlet = errors.New("unknown cloudlet")
	ErrUnknownVm       = errors.New("unknown vm")
)
