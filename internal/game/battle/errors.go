package battle

import "errors"

// ErrTemplateNotFound is returned when a battle is created for a species the
// provider does not know. Battle creation is aborted.
var ErrTemplateNotFound = errors.New("species template not found")

// ErrInvalidAction marks an action naming an unknown move or item. Inside a
// turn it is logged and the action does nothing.
var ErrInvalidAction = errors.New("invalid action")

// ErrNotApplicable is returned when an action is not allowed in the current
// battle state: capture outside a wild battle, fleeing a trainer, or a second
// submission for the same side in one turn.
var ErrNotApplicable = errors.New("action not applicable")

// ErrBattleNotFound is returned by Manager lookups for unknown battle IDs.
var ErrBattleNotFound = errors.New("battle not found")
