package nocgen

// file register.go holds the collaborators told about each router's share of
// the simulated memory

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// NodeRegistrar accepts the memory layout of one node: the cpus (routers) it holds,
// the bytes of memory it owns, and its node number
type NodeRegistrar interface {
	RegisterNode(cpus []int, memBytes uint64, nodeID int) error
}

// NodeDesc is the serializable record of one registered node
type NodeDesc struct {
	NodeID   int    `json:"nodeid" yaml:"nodeid" toml:"nodeid"`
	CPUs     []int  `json:"cpus" yaml:"cpus" toml:"cpus"`
	MemBytes uint64 `json:"membytes" yaml:"membytes" toml:"membytes"`
}

// NodeRegistry keeps registered nodes in memory, in registration order
type NodeRegistry struct {
	Nodes []NodeDesc `json:"nodes" yaml:"nodes" toml:"nodes"`
}

// CreateNodeRegistry is a constructor
func CreateNodeRegistry() *NodeRegistry {
	return &NodeRegistry{Nodes: make([]NodeDesc, 0)}
}

// RegisterNode records the node.  A node number may be registered once.
func (nr *NodeRegistry) RegisterNode(cpus []int, memBytes uint64, nodeID int) error {
	for _, nd := range nr.Nodes {
		if nd.NodeID == nodeID {
			return fmt.Errorf("node %d registered twice", nodeID)
		}
	}
	cpuCopy := make([]int, len(cpus))
	copy(cpuCopy, cpus)
	nr.Nodes = append(nr.Nodes, NodeDesc{NodeID: nodeID, CPUs: cpuCopy, MemBytes: memBytes})
	return nil
}

// TotalMemBytes sums the memory of every registered node
func (nr *NodeRegistry) TotalMemBytes() uint64 {
	var total uint64
	for _, nd := range nr.Nodes {
		total += nd.MemBytes
	}
	return total
}

// WriteToFile stores the registry to the file whose name is given.
func (nr *NodeRegistry) WriteToFile(filename string) error {
	return writeDescFile(filename, nr)
}

// SysfsRegistrar writes each node into the host's emulated /sys tree:
// <outdir>/fs/sys/devices/system/node/node<i>/{cpumap,cpulist,meminfo}
type SysfsRegistrar struct {
	fs   afero.Fs
	root string
}

// CreateSysfsRegistrar is a constructor.  outdir is the host's output directory.
func CreateSysfsRegistrar(fs afero.Fs, outdir string) *SysfsRegistrar {
	return &SysfsRegistrar{
		fs:   fs,
		root: filepath.Join(outdir, "fs", "sys", "devices", "system", "node"),
	}
}

// NodeDir is the directory holding the files of the given node
func (sr *SysfsRegistrar) NodeDir(nodeID int) string {
	return filepath.Join(sr.root, fmt.Sprintf("node%d", nodeID))
}

// RegisterNode creates the node directory and appends its cpumap, cpulist and meminfo entries
func (sr *SysfsRegistrar) RegisterNode(cpus []int, memBytes uint64, nodeID int) error {
	nodeDir := sr.NodeDir(nodeID)
	if err := sr.fs.MkdirAll(nodeDir, 0o755); err != nil {
		return err
	}

	if err := sr.appendFile(filepath.Join(nodeDir, "cpumap"), HexMask(cpus)); err != nil {
		return err
	}
	if err := sr.appendFile(filepath.Join(nodeDir, "cpulist"), CPUList(cpus)); err != nil {
		return err
	}

	meminfo := fmt.Sprintf("Node %d MemTotal: %dkB", nodeID, memBytes/1024)
	return sr.appendFile(filepath.Join(nodeDir, "meminfo"), meminfo)
}

func (sr *SysfsRegistrar) appendFile(name, line string) error {
	f, err := sr.fs.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// HexMask renders a set of cpu numbers as a bit mask in hex, at least 8 digits wide
func HexMask(cpus []int) string {
	mask := new(big.Int)
	for _, cpu := range cpus {
		mask.SetBit(mask, cpu, 1)
	}
	return fmt.Sprintf("%08x", mask)
}

// CPUList renders cpu numbers the way /sys lists them, comma separated in the order given
func CPUList(cpus []int) string {
	strs := make([]string, len(cpus))
	for idx, cpu := range cpus {
		strs[idx] = strconv.Itoa(cpu)
	}
	return strings.Join(strs, ",")
}

// Registrars fans one registration out to several registrars, stopping at the first error
type Registrars []NodeRegistrar

// RegisterNode registers the node with every member
func (rs Registrars) RegisterNode(cpus []int, memBytes uint64, nodeID int) error {
	for _, reg := range rs {
		if err := reg.RegisterNode(cpus, memBytes, nodeID); err != nil {
			return err
		}
	}
	return nil
}
