package sim

import "errors"

var (
	// ErrNotAttached indicates an actor action on a user that no environment adopted.
	ErrNotAttached = errors.New("chatsim: user not attached to an environment")
	// ErrNoDispatcher indicates update emission without a configured dispatcher.
	ErrNoDispatcher = errors.New("chatsim: no dispatcher configured")
	// ErrInvalidUpdate indicates an update that does not satisfy envelope invariants.
	ErrInvalidUpdate = errors.New("chatsim: invalid update")
)
