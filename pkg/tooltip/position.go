package tooltip

import "fmt"

// Side is the requested placement of the tooltip relative to its host.
type Side string

const (
	SideLeft   Side = "left"
	SideRight  Side = "right"
	SideTop    Side = "top"
	SideBottom Side = "bottom"
)

// Valid reports whether s is one of the four sides.
func (s Side) Valid() bool {
	switch s {
	case SideLeft, SideRight, SideTop, SideBottom:
		return true
	}
	return false
}

// ParseSide converts a string to a Side.
func ParseSide(s string) (Side, error) {
	side := Side(s)
	if !side.Valid() {
		return "", &InvalidPositionError{Position: s}
	}
	return side, nil
}

// Direction is the ambient text direction.
// The zero value means no directionality was provided and behaves as ltr.
type Direction string

const (
	DirLTR Direction = "ltr"
	DirRTL Direction = "rtl"
)

// IsRTL reports whether d is right-to-left.
func (d Direction) IsRTL() bool { return d == DirRTL }

// ParseDirection converts a string to a Direction. The empty string is
// accepted and yields the zero Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case "", DirLTR, DirRTL:
		return Direction(s), nil
	}
	return "", fmt.Errorf("tooltip: text direction %q is invalid", s)
}

// HorizontalPos is a horizontal connection point on an element.
// Start and end are relative to the text direction.
type HorizontalPos string

const (
	HStart  HorizontalPos = "start"
	HCenter HorizontalPos = "center"
	HEnd    HorizontalPos = "end"
)

// VerticalPos is a vertical connection point on an element.
type VerticalPos string

const (
	VTop    VerticalPos = "top"
	VCenter VerticalPos = "center"
	VBottom VerticalPos = "bottom"
)

// AnchorPoint is a connection point on an element's bounding box.
type AnchorPoint struct {
	X HorizontalPos `json:"x"`
	Y VerticalPos   `json:"y"`
}

// PositionPair is one placement candidate: a point on the host connected
// to a point on the tooltip panel.
type PositionPair struct {
	Origin  AnchorPoint `json:"origin"`
	Overlay AnchorPoint `json:"overlay"`
}

// Placement holds the preferred pair and the pair to use when the
// preferred one is clipped. Fallback mirrors Primary on exactly one axis.
type Placement struct {
	Primary  PositionPair `json:"primary"`
	Fallback PositionPair `json:"fallback"`
}

// Pairs returns the candidates in the order they should be tried.
func (p Placement) Pairs() []PositionPair {
	return []PositionPair{p.Primary, p.Fallback}
}

// Resolve maps a side and text direction to a placement. It has no side
// effects and returns an *InvalidPositionError for an unknown side.
func Resolve(side Side, dir Direction) (Placement, error) {
	var primary PositionPair
	rtl := dir.IsRTL()

	switch {
	case side == SideTop:
		primary = PositionPair{
			Origin:  AnchorPoint{X: HCenter, Y: VTop},
			Overlay: AnchorPoint{X: HCenter, Y: VBottom},
		}
	case side == SideBottom:
		primary = PositionPair{
			Origin:  AnchorPoint{X: HCenter, Y: VBottom},
			Overlay: AnchorPoint{X: HCenter, Y: VTop},
		}
	case (side == SideLeft && !rtl) || (side == SideRight && rtl):
		primary = PositionPair{
			Origin:  AnchorPoint{X: HStart, Y: VCenter},
			Overlay: AnchorPoint{X: HEnd, Y: VCenter},
		}
	case (side == SideRight && !rtl) || (side == SideLeft && rtl):
		primary = PositionPair{
			Origin:  AnchorPoint{X: HEnd, Y: VCenter},
			Overlay: AnchorPoint{X: HStart, Y: VCenter},
		}
	default:
		return Placement{}, &InvalidPositionError{Position: string(side)}
	}

	vertical := side == SideTop || side == SideBottom
	return Placement{
		Primary: primary,
		Fallback: PositionPair{
			Origin:  invert(primary.Origin, vertical),
			Overlay: invert(primary.Overlay, vertical),
		},
	}, nil
}

// invert flips the vertical component when vertical is set, otherwise the
// horizontal one. Center stays center.
func invert(p AnchorPoint, vertical bool) AnchorPoint {
	if vertical {
		switch p.Y {
		case VTop:
			p.Y = VBottom
		case VBottom:
			p.Y = VTop
		}
		return p
	}
	switch p.X {
	case HStart:
		p.X = HEnd
	case HEnd:
		p.X = HStart
	}
	return p
}
