package nocgen

// file coords.go holds the mapping between linear router ids and
// positions in the router grid (or on the ring)

import "fmt"

// GridDims gives the extents of a router grid. Depth 1 is a 2-D mesh.
type GridDims struct {
	Cols  int `json:"cols" yaml:"cols" toml:"cols"`
	Rows  int `json:"rows" yaml:"rows" toml:"rows"`
	Depth int `json:"depth" yaml:"depth" toml:"depth"`
}

// Size is the number of routers the grid holds
func (d GridDims) Size() int {
	return d.Cols * d.Rows * d.Depth
}

// planeSize is the number of routers in one z layer
func (d GridDims) planeSize() int {
	return d.Rows * d.Cols
}

func (d GridDims) String() string {
	return fmt.Sprintf("%dx%dx%d", d.Cols, d.Rows, d.Depth)
}

// Contains reports whether (x,y,z) lies inside the grid
func (d GridDims) Contains(x, y, z int) bool {
	return 0 <= x && x < d.Cols && 0 <= y && y < d.Rows && 0 <= z && z < d.Depth
}

// ValidID reports whether id names a router of the grid
func (d GridDims) ValidID(id int) bool {
	return 0 <= id && id < d.Size()
}

// RouterID linearizes a grid coordinate. The caller ensures the coordinate
// is inside the grid; the assembler checks the grid against the router count once.
func RouterID(d GridDims, x, y, z int) int {
	return z*d.planeSize() + y*d.Cols + x
}

// Coords is the inverse of RouterID
func Coords(d GridDims, id int) (x, y, z int) {
	plane := d.planeSize()
	z = id / plane
	rest := id % plane
	y = rest / d.Cols
	x = rest % d.Cols
	return x, y, z
}

// RingNext is the clockwise neighbor of router i on a ring of n routers
func RingNext(i, n int) int {
	return (i + 1) % n
}

// RingPrev is the counterclockwise neighbor of router i on a ring of n routers
func RingPrev(i, n int) int {
	return (i - 1 + n) % n
}
