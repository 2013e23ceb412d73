package domain

import "time"

// ActionType classifies what an agent wants to do.
type ActionType int

const (
	ActionUnknown ActionType = iota
	ActionMove
	ActionFace
	ActionPickUp
	ActionPlace
	ActionThrow
	ActionInteract
	ActionExtinguish
)

// String returns a human-readable action type.
func (a ActionType) String() string {
	switch a {
	case ActionMove:
		return "move"
	case ActionFace:
		return "face"
	case ActionPickUp:
		return "pickup"
	case ActionPlace:
		return "place"
	case ActionThrow:
		return "throw"
	case ActionInteract:
		return "interact"
	case ActionExtinguish:
		return "extinguish"
	default:
		return "unknown"
	}
}

// Action is a single agent command applied to a simulation.
type Action struct {
	Type    ActionType
	AgentID string
	Target  Vec           // station position, or destination for move
	Dir     Vec           // facing direction for face/extinguish
	Delta   time.Duration // extinguish spray duration
}

// actionNames maps lowercase names to ActionType values.
var actionNames = map[string]ActionType{
	"move":       ActionMove,
	"face":       ActionFace,
	"pickup":     ActionPickUp,
	"pick":       ActionPickUp,
	"place":      ActionPlace,
	"drop":       ActionPlace,
	"throw":      ActionThrow,
	"interact":   ActionInteract,
	"use":        ActionInteract,
	"extinguish": ActionExtinguish,
	"spray":      ActionExtinguish,
}

// ActionFromString converts a name to an ActionType.
// Returns ActionUnknown for unrecognized names.
func ActionFromString(name string) ActionType {
	if t, ok := actionNames[name]; ok {
		return t
	}
	return ActionUnknown
}
