package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone        Action = iota
	ActionMoveNorth          // Up arrow
	ActionMoveEast           // Right arrow
	ActionMoveSouth          // Down arrow
	ActionMoveWest           // Left arrow
	ActionRotateLeft         // A
	ActionRotateRight        // D
	ActionFire               // Space
	ActionShields            // S - toggle shields
	ActionRadar              // R - toggle radar
	ActionRadarUp            // + / =
	ActionRadarDown          // - / _
	ActionRestart            // N - new match after game over
	ActionPause              // P
	ActionBack               // B, Esc - leave the match
	ActionQuit               // Q, Ctrl+C
)

var actionNames = map[Action]string{
	ActionNone:        "None",
	ActionMoveNorth:   "MoveNorth",
	ActionMoveEast:    "MoveEast",
	ActionMoveSouth:   "MoveSouth",
	ActionMoveWest:    "MoveWest",
	ActionRotateLeft:  "RotateLeft",
	ActionRotateRight: "RotateRight",
	ActionFire:        "Fire",
	ActionShields:     "Shields",
	ActionRadar:       "Radar",
	ActionRadarUp:     "RadarUp",
	ActionRadarDown:   "RadarDown",
	ActionRestart:     "Restart",
	ActionPause:       "Pause",
	ActionBack:        "Back",
	ActionQuit:        "Quit",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// InputFrame represents the input state for the local player during one tick.
// It contains all actions that were triggered since the previous tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool {
	for _, on := range f.Actions {
		if on {
			return false
		}
	}
	return true
}
