package nocgen

// file topology.go holds the topology builders the simulator host selects by name.
// Each is created from the host's controller list, builds routers and links from the
// options, and registers each router's share of memory with the host.

import (
	"fmt"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
)

// descriptions by which the host selects a topology
const (
	Mesh3DDescription = "Mesh_3D"
	RingDescription   = "Ring"
)

// Topology is implemented by each topology builder
type Topology interface {
	// Description is the name the host selects the topology by
	Description() string

	// MakeTopology creates the routers, the external links joining controllers to
	// routers, and the internal links joining routers.  On error nothing is returned.
	MakeTopology(opts *Options) (*TopoCfgFrame, error)

	// RegisterTopology gives each router an equal share of the simulated memory
	RegisterTopology(opts *Options, reg NodeRegistrar) error
}

// CreateTopology returns the builder whose description is name
func CreateTopology(name string, controllers []Endpoint) (Topology, error) {
	switch name {
	case Mesh3DDescription:
		return CreateMesh3D(controllers), nil
	case RingDescription:
		return CreateRing(controllers), nil
	}
	return nil, fmt.Errorf("unknown topology %q, expected %s or %s", name, Mesh3DDescription, RingDescription)
}

// Mesh3D lays the routers out as a cols x rows x depth grid and joins neighbors
// along each of the three axes
type Mesh3D struct {
	nodes []Endpoint
}

// CreateMesh3D is a constructor.  The controllers are attached in the order given.
func CreateMesh3D(controllers []Endpoint) *Mesh3D {
	return &Mesh3D{nodes: controllers}
}

// Description returns "Mesh_3D"
func (m *Mesh3D) Description() string {
	return Mesh3DDescription
}

// MeshDims checks the mesh options and derives the grid they describe.  The depth is
// the number of rows x cols layers needed to hold all the routers.
func MeshDims(opts *Options) (GridDims, error) {
	numRouters, numRows, numCols := opts.NumRouters(), opts.MeshRows, opts.MeshCols

	if numRouters <= 0 {
		return GridDims{}, &ConfigError{Topology: Mesh3DDescription,
			Reason: fmt.Sprintf("router count %d is not positive", numRouters)}
	}
	if numRows <= 0 || numCols <= 0 {
		return GridDims{}, &ConfigError{Topology: Mesh3DDescription,
			Reason: fmt.Sprintf("mesh rows %d and cols %d must be positive", numRows, numCols)}
	}
	if numRows*numCols > numRouters {
		return GridDims{}, &ConfigError{Topology: Mesh3DDescription,
			Reason: fmt.Sprintf("%d rows x %d cols exceeds %d routers", numRows, numCols, numRouters)}
	}

	dims := GridDims{Cols: numCols, Rows: numRows, Depth: numRouters / (numRows * numCols)}
	if dims.Size() != numRouters {
		return GridDims{}, &ConfigError{Topology: Mesh3DDescription,
			Reason: fmt.Sprintf("%d routers do not fill whole %d x %d layers", numRouters, numRows, numCols)}
	}
	return dims, nil
}

// MakeTopology builds the mesh
func (m *Mesh3D) MakeTopology(opts *Options) (*TopoCfgFrame, error) {
	dims, err := MeshDims(opts)
	if err != nil {
		return nil, err
	}

	placement, err := Distribute(m.nodes, dims.Size())
	if err != nil {
		return nil, err
	}

	tf := CreateTopoCfgFrame(fmt.Sprintf("%s-%s", Mesh3DDescription, dims), Mesh3DDescription)
	tf.Dims = dims
	tf.Endpts = append(tf.Endpts, m.nodes...)
	tf.Routers = createRouters(dims.Size(), opts.RouterLatency)

	var lc linkCounter
	tf.ExtLinks = buildExtLinks(&lc, placement, tf.Routers, opts.LinkLatency)
	tf.IntLinks = buildMeshIntLinks(&lc, dims, tf.Routers, opts.LinkLatency)

	logBuild(tf, placement)
	return tf, nil
}

// RegisterTopology gives each router an equal share of the simulated memory
func (m *Mesh3D) RegisterTopology(opts *Options, reg NodeRegistrar) error {
	return registerRouters(opts, reg)
}

// Ring places the routers on a cycle, each joined to its clockwise and counterclockwise neighbors
type Ring struct {
	nodes []Endpoint
}

// CreateRing is a constructor.  The controllers are attached in the order given.
func CreateRing(controllers []Endpoint) *Ring {
	return &Ring{nodes: controllers}
}

// Description returns "Ring"
func (r *Ring) Description() string {
	return RingDescription
}

// MakeTopology builds the ring
func (r *Ring) MakeTopology(opts *Options) (*TopoCfgFrame, error) {
	numRouters := opts.NumRouters()
	if numRouters <= 0 {
		return nil, &ConfigError{Topology: RingDescription,
			Reason: fmt.Sprintf("router count %d is not positive", numRouters)}
	}

	placement, err := Distribute(r.nodes, numRouters)
	if err != nil {
		return nil, err
	}

	tf := CreateTopoCfgFrame(fmt.Sprintf("%s-%d", RingDescription, numRouters), RingDescription)
	tf.Dims = GridDims{Cols: numRouters, Rows: 1, Depth: 1}
	tf.Endpts = append(tf.Endpts, r.nodes...)
	tf.Routers = createRouters(numRouters, opts.RouterLatency)

	var lc linkCounter
	tf.ExtLinks = buildExtLinks(&lc, placement, tf.Routers, opts.LinkLatency)
	tf.IntLinks = buildRingIntLinks(&lc, tf.Routers, opts.LinkLatency)

	logBuild(tf, placement)
	return tf, nil
}

// RegisterTopology gives each router an equal share of the simulated memory
func (r *Ring) RegisterTopology(opts *Options, reg NodeRegistrar) error {
	return registerRouters(opts, reg)
}

// createRouters makes routers 0..n-1
func createRouters(n, latency int) []*RouterFrame {
	routers := make([]*RouterFrame, n)
	for i := 0; i < n; i++ {
		routers[i] = CreateRouter(i, latency)
	}
	return routers
}

// registerRouters tells reg that router i owns memory node i, holding memory/routers bytes
func registerRouters(opts *Options, reg NodeRegistrar) error {
	numRouters := opts.NumRouters()
	if numRouters <= 0 {
		return &ConfigError{Topology: opts.Topology,
			Reason: fmt.Sprintf("router count %d is not positive", numRouters)}
	}
	memBytes, err := opts.MemBytes()
	if err != nil {
		return err
	}

	share := memBytes / uint64(numRouters)
	for i := 0; i < numRouters; i++ {
		if err := reg.RegisterNode([]int{i}, share, i); err != nil {
			return fmt.Errorf("registering node %d: %w", i, err)
		}
	}

	logger.WithFields(log.Fields{
		"nodes": numRouters,
		"share": humanize.IBytes(share),
	}).Debug("registered memory nodes")
	return nil
}

func logBuild(tf *TopoCfgFrame, p *Placement) {
	logger.WithFields(log.Fields{
		"topology":   tf.Name,
		"routers":    len(tf.Routers),
		"ext_links":  len(tf.ExtLinks),
		"int_links":  len(tf.IntLinks),
		"per_router": p.PerRouter,
		"leftover":   p.Remainder,
	}).Debug("built topology")
}
