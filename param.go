package nocgen

// file param.go holds the simulation options read by the topology builders and
// the controller lists they are handed

import (
	"fmt"

	units "github.com/docker/go-units"
)

// controller type tags used by the host's protocols
const (
	L1CacheControllerType   = "L1Cache_Controller"
	DirectoryControllerType = "Directory_Controller"
)

// Options carries the host options a topology build reads.  Field names follow the
// host's command line (--num-cpus, --mesh-rows, ...).  NumCPUs is also the router count.
type Options struct {
	NumCPUs       int    `json:"num_cpus" yaml:"num_cpus" toml:"num_cpus"`
	NumDirs       int    `json:"num_dirs" yaml:"num_dirs" toml:"num_dirs"`
	NumDMAs       int    `json:"num_dmas" yaml:"num_dmas" toml:"num_dmas"`
	MeshRows      int    `json:"mesh_rows" yaml:"mesh_rows" toml:"mesh_rows"`
	MeshCols      int    `json:"mesh_cols" yaml:"mesh_cols" toml:"mesh_cols"`
	LinkLatency   int    `json:"link_latency" yaml:"link_latency" toml:"link_latency"`
	RouterLatency int    `json:"router_latency" yaml:"router_latency" toml:"router_latency"`
	MemSize       string `json:"mem_size" yaml:"mem_size" toml:"mem_size"`
	Topology      string `json:"topology" yaml:"topology" toml:"topology"`
}

// CreateOptions is a constructor. It fills in the host's defaults.
func CreateOptions() *Options {
	return &Options{
		NumCPUs:       1,
		NumDirs:       1,
		NumDMAs:       0,
		LinkLatency:   1,
		RouterLatency: 1,
		MemSize:       "512MB",
		Topology:      Mesh3DDescription,
	}
}

// NumRouters is the number of routers a build creates, one per CPU
func (opts *Options) NumRouters() int {
	return opts.NumCPUs
}

// MemBytes parses MemSize.  As on the host, size suffixes are binary multiples
// ("512MB" and "512MiB" are both 512*2^20 bytes).
func (opts *Options) MemBytes() (uint64, error) {
	size, err := units.RAMInBytes(opts.MemSize)
	if err != nil {
		return 0, fmt.Errorf("mem_size %q: %w", opts.MemSize, err)
	}
	if size < 0 {
		return 0, fmt.Errorf("mem_size %q is negative", opts.MemSize)
	}
	return uint64(size), nil
}

// WriteToFile stores the Options struct to the file whose name is given.
// Serialization to json, yaml, or toml is selected based on the extension of this name.
func (opts *Options) WriteToFile(filename string) error {
	return writeDescFile(filename, opts)
}

// ReadOptions deserializes a byte slice holding a representation of an Options struct.
// If the input argument of dict (those bytes) is empty, the file whose name is given is read
// to acquire them.  Options absent from the input keep their defaults.
func ReadOptions(filename string, format Format, dict []byte) (*Options, error) {
	opts := CreateOptions()
	if err := readDescFile(filename, format, dict, opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// EndptList is a serializable, ordered list of controllers.  The order is the one
// the topology builders attach them to routers in.
type EndptList struct {
	ListName string      `json:"listname" yaml:"listname" toml:"listname"`
	Endpts   []EndptDesc `json:"endpts" yaml:"endpts" toml:"endpts"`
}

// CreateEndptList is a constructor
func CreateEndptList(listname string, endpts []Endpoint) *EndptList {
	el := new(EndptList)
	el.ListName = listname
	el.Endpts = make([]EndptDesc, len(endpts))
	for idx, ep := range endpts {
		el.Endpts[idx] = transformEndpt(ep)
	}
	return el
}

// Frames returns the controllers of the list, in order
func (el *EndptList) Frames() []Endpoint {
	endpts := make([]Endpoint, len(el.Endpts))
	for idx, ed := range el.Endpts {
		endpts[idx] = CreateEndpt(ed.Name, ed.Type)
	}
	return endpts
}

// WriteToFile stores the EndptList struct to the file whose name is given.
func (el *EndptList) WriteToFile(filename string) error {
	return writeDescFile(filename, el)
}

// ReadEndptList deserializes an EndptList, from dict or (if dict is empty) from the named file
func ReadEndptList(filename string, format Format, dict []byte) (*EndptList, error) {
	example := EndptList{}
	if err := readDescFile(filename, format, dict, &example); err != nil {
		return nil, err
	}
	return &example, nil
}

// DefaultControllers builds the controller list the host creates for opts:
// one L1 cache controller per CPU, then the directory controllers, then the DMA controllers
func DefaultControllers(opts *Options) []Endpoint {
	endpts := make([]Endpoint, 0, opts.NumCPUs+opts.NumDirs+opts.NumDMAs)
	for i := 0; i < opts.NumCPUs; i++ {
		endpts = append(endpts, CreateEndpt(fmt.Sprintf("l1_cntrl%d", i), L1CacheControllerType))
	}
	for i := 0; i < opts.NumDirs; i++ {
		endpts = append(endpts, CreateEndpt(fmt.Sprintf("dir_cntrl%d", i), DirectoryControllerType))
	}
	for i := 0; i < opts.NumDMAs; i++ {
		endpts = append(endpts, CreateEndpt(fmt.Sprintf("dma_cntrl%d", i), DMAControllerType))
	}
	return endpts
}
