package bridge

import "errors"

// Domain errors for bridge operations. Every failing call leaves all bridge
// state exactly as it was before the call.
var (
	// ErrUnknownHandle indicates a handle that does not refer to a live
	// object (never created, or already deleted).
	ErrUnknownHandle = errors.New("bridge: unknown object handle")

	// ErrEntityNotFound indicates the host has no entity with that id.
	ErrEntityNotFound = errors.New("bridge: entity not found")

	// ErrNoBoundEntity indicates an entity-dependent operation on an
	// object with no assigned entities.
	ErrNoBoundEntity = errors.New("bridge: object has no bound entity")

	// ErrUnknownOperation indicates an operation name outside the
	// dispatch table.
	ErrUnknownOperation = errors.New("bridge: unknown operation")

	// ErrArgumentMismatch indicates an argument count or value that does
	// not fit the named operation.
	ErrArgumentMismatch = errors.New("bridge: operation argument mismatch")

	// ErrEngineAllocation indicates the physics engine failed to allocate
	// a body.
	ErrEngineAllocation = errors.New("bridge: engine body allocation failed")

	// ErrInvalidStepConfig indicates rejected sub-stepping parameters;
	// the previous configuration stays in effect.
	ErrInvalidStepConfig = errors.New("bridge: invalid step configuration")

	// ErrNoHost indicates an entity-dependent call on a bridge built
	// without a host collaborator.
	ErrNoHost = errors.New("bridge: no host attached")
)
