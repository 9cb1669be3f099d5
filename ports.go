package nocgen

// file ports.go holds the closed set of port direction labels carried by internal links

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// PortDirection names the side of a router an internal link attaches to.
// The string forms are the labels the simulator host keys its routing on.
type PortDirection int

const (
	UnknownDirection PortDirection = iota
	East
	West
	North
	South
	Up
	Down
	Clockwise
	Counterclockwise
)

var portDirectionNames = []string{
	"Unknown",
	"East",
	"West",
	"North",
	"South",
	"Up",
	"Down",
	"Clockwise",
	"Counterclockwise",
}

// opposites pairs each direction with the one at the far end of the same link
var opposites = map[PortDirection]PortDirection{
	East:             West,
	West:             East,
	North:            South,
	South:            North,
	Up:               Down,
	Down:             Up,
	Clockwise:        Counterclockwise,
	Counterclockwise: Clockwise,
}

func (pd PortDirection) String() string {
	if pd < 0 || int(pd) >= len(portDirectionNames) {
		return fmt.Sprintf("PortDirection(%d)", int(pd))
	}
	return portDirectionNames[pd]
}

// Opposite returns the label at the other end of a link leaving through pd.
// UnknownDirection is its own opposite.
func (pd PortDirection) Opposite() PortDirection {
	opp, present := opposites[pd]
	if !present {
		return UnknownDirection
	}
	return opp
}

// Valid reports whether pd is one of the named directions
func (pd PortDirection) Valid() bool {
	_, present := opposites[pd]
	return present
}

// ParsePortDirection maps a label back to its direction
func ParsePortDirection(label string) (PortDirection, error) {
	idx := slices.Index(portDirectionNames, label)
	if idx < 1 {
		return UnknownDirection, fmt.Errorf("unknown port direction %q", label)
	}
	return PortDirection(idx), nil
}

// MarshalText writes the direction as its label
func (pd PortDirection) MarshalText() ([]byte, error) {
	if !pd.Valid() {
		return nil, fmt.Errorf("cannot serialize port direction %d", int(pd))
	}
	return []byte(pd.String()), nil
}

// UnmarshalText reads a direction label
func (pd *PortDirection) UnmarshalText(text []byte) error {
	parsed, err := ParsePortDirection(string(text))
	if err != nil {
		return err
	}
	*pd = parsed
	return nil
}
