package nocgen

// file links.go builds the external links (controller to router) and the
// internal links (router to router) of a topology

// linkCounter hands out link ids in construction order.  One counter is shared by
// the external and internal links of a single build.
type linkCounter struct {
	next int
}

func (lc *linkCounter) take() int {
	id := lc.next
	lc.next += 1
	return id
}

// axisPorts gives, for one grid axis, the labels of a link stepping forward along the
// axis and the routing weight of links on that axis.  The backward link uses the opposites.
type axisPorts struct {
	outport PortDirection
	inport  PortDirection
	weight  int
}

var (
	xAxis    = axisPorts{outport: East, inport: West, weight: 1}
	yAxis    = axisPorts{outport: North, inport: South, weight: 2}
	zAxis    = axisPorts{outport: Up, inport: Down, weight: 3}
	ringAxis = axisPorts{outport: Clockwise, inport: Counterclockwise, weight: 1}
)

// buildExtLinks attaches every placed controller to its router, regular controllers
// first, left-over controllers after, each in input order
func buildExtLinks(lc *linkCounter, p *Placement, routers []*RouterFrame, latency int) []*ExtLinkFrame {
	extLinks := make([]*ExtLinkFrame, 0, len(p.Regular)+len(p.Leftover))
	for _, asgn := range p.Assignments() {
		extLinks = append(extLinks, CreateExtLink(lc.take(), asgn.Index, asgn.Endpt, routers[asgn.Router], latency))
	}
	return extLinks
}

// connectPair appends the two directed links joining n0 and n1, n0->n1 with the
// forward labels of the axis first, then n1->n0 with the reverse labels
func connectPair(lc *linkCounter, intLinks []*IntLinkFrame, n0, n1 *RouterFrame, axis axisPorts, latency int) []*IntLinkFrame {
	intLinks = append(intLinks,
		CreateIntLink(lc.take(), n0, n1, axis.outport, axis.inport, latency, axis.weight))
	intLinks = append(intLinks,
		CreateIntLink(lc.take(), n1, n0, axis.inport, axis.outport, latency, axis.weight))
	return intLinks
}

// numMeshIntLinks is the number of internal links of a grid
func numMeshIntLinks(d GridDims) int {
	pairs := d.Depth*d.Rows*(d.Cols-1) + d.Depth*d.Cols*(d.Rows-1) + d.Rows*d.Cols*(d.Depth-1)
	return 2 * pairs
}

// buildMeshIntLinks joins every pair of routers adjacent along an axis of the grid.
// The traversal order fixes the link ids, which the host may rely on positionally:
// all of X, then all of Y, then all of Z, with the axis coordinate in the innermost loop.
func buildMeshIntLinks(lc *linkCounter, d GridDims, routers []*RouterFrame, latency int) []*IntLinkFrame {
	intLinks := make([]*IntLinkFrame, 0, numMeshIntLinks(d))

	// X dimension, east/west
	for z := 0; z < d.Depth; z++ {
		for y := 0; y < d.Rows; y++ {
			for x := 0; x < d.Cols-1; x++ {
				n0, n1 := RouterID(d, x, y, z), RouterID(d, x+1, y, z)
				intLinks = connectPair(lc, intLinks, routers[n0], routers[n1], xAxis, latency)
			}
		}
	}

	// Y dimension, north/south
	for z := 0; z < d.Depth; z++ {
		for x := 0; x < d.Cols; x++ {
			for y := 0; y < d.Rows-1; y++ {
				n0, n1 := RouterID(d, x, y, z), RouterID(d, x, y+1, z)
				intLinks = connectPair(lc, intLinks, routers[n0], routers[n1], yAxis, latency)
			}
		}
	}

	// Z dimension, between layers
	for y := 0; y < d.Rows; y++ {
		for x := 0; x < d.Cols; x++ {
			for z := 0; z < d.Depth-1; z++ {
				n0, n1 := RouterID(d, x, y, z), RouterID(d, x, y, z+1)
				intLinks = connectPair(lc, intLinks, routers[n0], routers[n1], zAxis, latency)
			}
		}
	}

	return intLinks
}

// buildRingIntLinks joins each router to its clockwise neighbor.  The last router's
// neighbor is router 0, closing the cycle, so there are 2N links for N routers.
func buildRingIntLinks(lc *linkCounter, routers []*RouterFrame, latency int) []*IntLinkFrame {
	n := len(routers)
	intLinks := make([]*IntLinkFrame, 0, 2*n)
	for i := 0; i < n; i++ {
		intLinks = connectPair(lc, intLinks, routers[i], routers[RingNext(i, n)], ringAxis, latency)
	}
	return intLinks
}
