package battle

import (
	"fmt"
	"sort"
)

// Side indexes one of the two participant slots.
type Side int

const (
	SidePlayer Side = iota
	SideOpponent
)

// Opponent returns the other side.
func (s Side) Opponent() Side { return 1 - s }

// Valid reports whether s names a slot.
func (s Side) Valid() bool { return s == SidePlayer || s == SideOpponent }

// String returns "player" or "opponent".
func (s Side) String() string {
	if s == SidePlayer {
		return "player"
	}
	return "opponent"
}

// ActionType identifies what a side intends to do this turn.
// The zero value (ActionUnknown) is intentionally invalid.
type ActionType int

const (
	ActionUnknown ActionType = iota // zero value; intentionally invalid
	ActionAttack                    // payload: move ID
	ActionItem                      // payload: item ID
	ActionRun
	ActionSwitch
)

// String returns the wire name of the ActionType.
// Postcondition: returns "attack", "item", "run", "switch", or "unknown".
func (a ActionType) String() string {
	switch a {
	case ActionAttack:
		return "attack"
	case ActionItem:
		return "item"
	case ActionRun:
		return "run"
	case ActionSwitch:
		return "switch"
	default:
		return "unknown"
	}
}

// ParseActionType maps a wire name to its ActionType.
func ParseActionType(s string) (ActionType, error) {
	switch s {
	case "attack":
		return ActionAttack, nil
	case "item":
		return ActionItem, nil
	case "run":
		return ActionRun, nil
	case "switch":
		return ActionSwitch, nil
	}
	return ActionUnknown, fmt.Errorf("unknown action type %q", s)
}

// NonMovePriority is the ordering priority of item, run and switch actions,
// above every move priority.
const NonMovePriority = 6

// Action is one queued intent. Priority and Speed are snapshots taken at
// submission time and are used only for ordering.
type Action struct {
	Side     Side
	Type     ActionType
	MoveID   string
	ItemID   string
	Priority int
	Speed    int
	// Seq is the submission sequence number within the turn.
	Seq int
}

// OrderActions returns the actions in execution order: priority descending,
// then speed snapshot descending, then submission order.
//
// Postcondition: Returns a new slice; the input is not modified.
func OrderActions(actions []Action) []Action {
	ordered := make([]Action, len(actions))
	copy(ordered, actions)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Speed != b.Speed {
			return a.Speed > b.Speed
		}
		return a.Seq < b.Seq
	})
	return ordered
}
