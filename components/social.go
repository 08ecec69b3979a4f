package components

// Direction is the transient slide direction of a social proof transition
type Direction uint8

const (
	DirectionNone Direction = iota
	DirectionLeft
	DirectionRight
	DirectionTop
	DirectionBottom
)

// TransitionDirections are the directions a rotation picks from
var TransitionDirections = [...]Direction{DirectionLeft, DirectionRight, DirectionTop, DirectionBottom}

func (d Direction) String() string {
	switch d {
	case DirectionNone:
		return "none"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	case DirectionTop:
		return "top"
	case DirectionBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// SocialProofState is the visible message and its transition flag
// Index is -1 while the catalog is empty
type SocialProofState struct {
	Index     int
	Message   string
	Direction Direction
}

// Transitioning reports whether the swap animation is in progress
func (s SocialProofState) Transitioning() bool {
	return s.Direction != DirectionNone
}
