package domain

// EffectID identifies a shown effect so it can be hidden again.
type EffectID uint64

// EffectKind classifies transient feedback.
type EffectKind int

const (
	EffectProgress EffectKind = iota
	EffectScore
	EffectIgnite
	EffectExtinguish
	EffectSparkle
	EffectTrash
	EffectClean
	EffectDanger
)

// String returns a human-readable effect kind.
func (k EffectKind) String() string {
	switch k {
	case EffectProgress:
		return "progress"
	case EffectScore:
		return "score"
	case EffectIgnite:
		return "ignite"
	case EffectExtinguish:
		return "extinguish"
	case EffectSparkle:
		return "sparkle"
	case EffectTrash:
		return "trash"
	case EffectClean:
		return "clean"
	case EffectDanger:
		return "danger"
	default:
		return "unknown"
	}
}

// Effect is a piece of transient feedback anchored at a world position.
type Effect struct {
	Kind EffectKind
	At   Vec
	Text string
}
