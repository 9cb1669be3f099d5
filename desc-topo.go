package nocgen

// file desc-topo.go holds structs, methods, and data structures supporting
// the construction of and access to descriptions of routers, the controllers
// attached to them, and the links between them

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// To most easily serialize and deserialize the structures handed to the simulator
// host, every description is completely described without pointers.  On the other hand
// links are most naturally built holding pointers to the routers and controllers they join.
// So there are two representations of each kind of structure.  One has the final appellation
// of 'Frame', and holds pointers.  The pointer free version has the final appellation of 'Desc'.
// After completely building the structures using Frames we transform each into a Desc version
// for serialization.

// DMAControllerType is the type tag of controllers allowed to be left over
// after the even spread of controllers across routers
const DMAControllerType = "DMA_Controller"

// Endpoint is the view the topology builders have of a controller supplied by the host.
// Only its name and type tag are read; its position in the list handed to a builder
// fixes which router it is attached to.
type Endpoint interface {
	EndptName() string // unique name of the controller
	EndptType() string // type tag, e.g. "L1Cache_Controller", "DMA_Controller"
}

// EndptDesc is the serializable description of a controller
type EndptDesc struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Type string `json:"type" yaml:"type" toml:"type"`
}

// EndptFrame is the pre-serialization representation of a controller
type EndptFrame struct {
	Name string
	Type string
}

// CreateEndpt is a constructor
func CreateEndpt(name, etype string) *EndptFrame {
	return &EndptFrame{Name: name, Type: etype}
}

// EndptName returns the controller name
func (epf *EndptFrame) EndptName() string {
	return epf.Name
}

// EndptType returns the controller type tag
func (epf *EndptFrame) EndptType() string {
	return epf.Type
}

// IsDMA indicates whether the controller carries the DMA type tag
func IsDMA(ep Endpoint) bool {
	return ep.EndptType() == DMAControllerType
}

// Transform returns a serializable EndptDesc, transformed from a EndptFrame.
func (epf *EndptFrame) Transform() EndptDesc {
	return EndptDesc{Name: epf.Name, Type: epf.Type}
}

// transformEndpt builds the serializable form of any Endpoint
func transformEndpt(ep Endpoint) EndptDesc {
	return EndptDesc{Name: ep.EndptName(), Type: ep.EndptType()}
}

// RouterDesc describes a router of the topology
type RouterDesc struct {
	ID      int    `json:"id" yaml:"id" toml:"id"`
	Name    string `json:"name" yaml:"name" toml:"name"`
	Latency int    `json:"latency" yaml:"latency" toml:"latency"`
}

// RouterFrame describes a router in pre-serialized form. Links hold pointers to these.
type RouterFrame struct {
	ID      int    // position in the topology's router list
	Name    string // identical to RouterDesc attribute
	Latency int    // router pipeline latency, in cycles
}

// DefaultRouterName returns the name given to the router with the given id
func DefaultRouterName(id int) string {
	return fmt.Sprintf("rtr.[%d]", id)
}

// CreateRouter is a constructor
func CreateRouter(id, latency int) *RouterFrame {
	return &RouterFrame{ID: id, Name: DefaultRouterName(id), Latency: latency}
}

// Transform returns a serializable RouterDesc, transformed from a RouterFrame.
func (rf *RouterFrame) Transform() RouterDesc {
	return RouterDesc{ID: rf.ID, Name: rf.Name, Latency: rf.Latency}
}

// ExtLinkDesc is the serializable form of a link between a controller and a router.
// The controller is referenced by its position in the controller list (names
// are carried along but need not be unique), the router by id.
type ExtLinkDesc struct {
	LinkID   int    `json:"linkid" yaml:"linkid" toml:"linkid"`
	ExtIndex int    `json:"extindex" yaml:"extindex" toml:"extindex"`
	ExtNode  string `json:"extnode" yaml:"extnode" toml:"extnode"`
	ExtType  string `json:"exttype" yaml:"exttype" toml:"exttype"`
	IntNode  int    `json:"intnode" yaml:"intnode" toml:"intnode"`
	Latency  int    `json:"latency" yaml:"latency" toml:"latency"`
}

// ExtLinkFrame joins a controller to a router
type ExtLinkFrame struct {
	LinkID   int
	ExtIndex int // position of ExtNode in the controller list
	ExtNode  Endpoint
	IntNode  *RouterFrame
	Latency  int
}

// CreateExtLink is a constructor
func CreateExtLink(linkID, extIndex int, extNode Endpoint, intNode *RouterFrame, latency int) *ExtLinkFrame {
	return &ExtLinkFrame{LinkID: linkID, ExtIndex: extIndex, ExtNode: extNode, IntNode: intNode, Latency: latency}
}

// Transform converts an ExtLinkFrame into an ExtLinkDesc, replacing pointers with names and ids
func (elf *ExtLinkFrame) Transform() ExtLinkDesc {
	return ExtLinkDesc{
		LinkID:   elf.LinkID,
		ExtIndex: elf.ExtIndex,
		ExtNode:  elf.ExtNode.EndptName(),
		ExtType:  elf.ExtNode.EndptType(),
		IntNode:  elf.IntNode.ID,
		Latency:  elf.Latency,
	}
}

// IntLinkDesc is the serializable form of a directed link between two routers
type IntLinkDesc struct {
	LinkID     int           `json:"linkid" yaml:"linkid" toml:"linkid"`
	SrcNode    int           `json:"srcnode" yaml:"srcnode" toml:"srcnode"`
	DstNode    int           `json:"dstnode" yaml:"dstnode" toml:"dstnode"`
	SrcOutport PortDirection `json:"srcoutport" yaml:"srcoutport" toml:"srcoutport"`
	DstInport  PortDirection `json:"dstinport" yaml:"dstinport" toml:"dstinport"`
	Latency    int           `json:"latency" yaml:"latency" toml:"latency"`
	Weight     int           `json:"weight" yaml:"weight" toml:"weight"`
}

// IntLinkFrame is a directed link from SrcNode (leaving through SrcOutport)
// to DstNode (arriving on DstInport)
type IntLinkFrame struct {
	LinkID     int
	SrcNode    *RouterFrame
	DstNode    *RouterFrame
	SrcOutport PortDirection
	DstInport  PortDirection
	Latency    int
	Weight     int // bias used by the host's table routing, not interpreted here
}

// CreateIntLink is a constructor
func CreateIntLink(linkID int, src, dst *RouterFrame, outport, inport PortDirection, latency, weight int) *IntLinkFrame {
	return &IntLinkFrame{
		LinkID:     linkID,
		SrcNode:    src,
		DstNode:    dst,
		SrcOutport: outport,
		DstInport:  inport,
		Latency:    latency,
		Weight:     weight,
	}
}

// Transform converts an IntLinkFrame into an IntLinkDesc
func (ilf *IntLinkFrame) Transform() IntLinkDesc {
	return IntLinkDesc{
		LinkID:     ilf.LinkID,
		SrcNode:    ilf.SrcNode.ID,
		DstNode:    ilf.DstNode.ID,
		SrcOutport: ilf.SrcOutport,
		DstInport:  ilf.DstInport,
		Latency:    ilf.Latency,
		Weight:     ilf.Weight,
	}
}

// The TopoCfgFrame struct gives the highest level structure of the topology while it is built.
// It is what MakeTopology hands back to the host.
type TopoCfgFrame struct {
	Name     string
	Kind     string   // description of the topology builder, "Mesh_3D" or "Ring"
	Dims     GridDims // grid extents; a ring is recorded as N x 1 x 1
	Endpts   []Endpoint
	Routers  []*RouterFrame
	ExtLinks []*ExtLinkFrame
	IntLinks []*IntLinkFrame
}

// CreateTopoCfgFrame is a constructor.
func CreateTopoCfgFrame(name, kind string) *TopoCfgFrame {
	tf := new(TopoCfgFrame)
	tf.Name = name
	tf.Kind = kind

	tf.Endpts = make([]Endpoint, 0)
	tf.Routers = make([]*RouterFrame, 0)
	tf.ExtLinks = make([]*ExtLinkFrame, 0)
	tf.IntLinks = make([]*IntLinkFrame, 0)
	return tf
}

// NumLinks is the count of external and internal links, which is also the next unused link id
func (tf *TopoCfgFrame) NumLinks() int {
	return len(tf.ExtLinks) + len(tf.IntLinks)
}

// Transform transforms the slices of pointers to topology objects
// into slices of instances of those objects, for serialization
func (tf *TopoCfgFrame) Transform() TopoCfg {
	tc := TopoCfg{Name: tf.Name, Kind: tf.Kind, Dims: tf.Dims}

	tc.Endpts = make([]EndptDesc, len(tf.Endpts))
	for idx, ep := range tf.Endpts {
		tc.Endpts[idx] = transformEndpt(ep)
	}

	tc.Routers = make([]RouterDesc, len(tf.Routers))
	for idx, rtrf := range tf.Routers {
		tc.Routers[idx] = rtrf.Transform()
	}

	tc.ExtLinks = make([]ExtLinkDesc, len(tf.ExtLinks))
	for idx, elf := range tf.ExtLinks {
		tc.ExtLinks[idx] = elf.Transform()
	}

	tc.IntLinks = make([]IntLinkDesc, len(tf.IntLinks))
	for idx, ilf := range tf.IntLinks {
		tc.IntLinks[idx] = ilf.Transform()
	}

	return tc
}

// TopoCfg contains the routers, controllers, and links of one topology,
// as they are listed in the description file.
type TopoCfg struct {
	Name     string        `json:"name" yaml:"name" toml:"name"`
	Kind     string        `json:"kind" yaml:"kind" toml:"kind"`
	Dims     GridDims      `json:"dims" yaml:"dims" toml:"dims"`
	Routers  []RouterDesc  `json:"routers" yaml:"routers" toml:"routers"`
	Endpts   []EndptDesc   `json:"endpts" yaml:"endpts" toml:"endpts"`
	ExtLinks []ExtLinkDesc `json:"extlinks" yaml:"extlinks" toml:"extlinks"`
	IntLinks []IntLinkDesc `json:"intlinks" yaml:"intlinks" toml:"intlinks"`
}

// A TopoCfgDict holds instances of TopoCfg structures, in a map whose key is
// a name for the topology.  Used to store pre-built instances of topologies
type TopoCfgDict struct {
	DictName string             `json:"dictname" yaml:"dictname" toml:"dictname"`
	Cfgs     map[string]TopoCfg `json:"cfgs" yaml:"cfgs" toml:"cfgs"`
}

// CreateTopoCfgDict is a constructor. Saves the dictionary name, initializes the TopoCfg map.
func CreateTopoCfgDict(name string) *TopoCfgDict {
	tcd := new(TopoCfgDict)
	tcd.DictName = name
	tcd.Cfgs = make(map[string]TopoCfg)

	return tcd
}

// AddTopoCfg includes a TopoCfg into the dictionary, optionally returning an error
// if an TopoCfg with the same name has already been included
func (tcd *TopoCfgDict) AddTopoCfg(tc *TopoCfg, overwrite bool) error {
	if !overwrite {
		_, present := tcd.Cfgs[tc.Name]
		if present {
			return fmt.Errorf("attempt to overwrite TopoCfg %s in TopoCfgDict", tc.Name)
		}
	}

	tcd.Cfgs[tc.Name] = *tc

	return nil
}

// RecoverTopoCfg returns a copy (if one exists) of the TopoCfg with name equal to the input argument name.
// Returns a boolean indicating whether the entry was actually found
func (tcd *TopoCfgDict) RecoverTopoCfg(name string) (*TopoCfg, bool) {
	tc, present := tcd.Cfgs[name]
	if present {
		return &tc, true
	}

	return nil, false
}

// WriteToFile serializes the TopoCfgDict and writes to the file whose name is given as an input argument.
// Extension of the file name selects whether serialization is to json, yaml, or toml format.
func (tcd *TopoCfgDict) WriteToFile(filename string) error {
	return writeDescFile(filename, tcd)
}

// ReadTopoCfgDict deserializes a slice of bytes into a TopoCfgDict.  If the input arg of bytes
// is empty, the file whose name is given as an argument is read.
func ReadTopoCfgDict(topoCfgDictFileName string, format Format, dict []byte) (*TopoCfgDict, error) {
	example := TopoCfgDict{}
	if err := readDescFile(topoCfgDictFileName, format, dict, &example); err != nil {
		return nil, err
	}
	return &example, nil
}

// WriteToFile serializes the TopoCfg and writes to the file whose name is given as an input argument.
// Extension of the file name selects whether serialization is to json, yaml, or toml format.
func (tc *TopoCfg) WriteToFile(filename string) error {
	return writeDescFile(filename, tc)
}

// ReadTopoCfg deserializes a slice of bytes into a TopoCfg.  If the input arg of bytes
// is empty, the file whose name is given as an argument is read.
func ReadTopoCfg(topoFileName string, format Format, dict []byte) (*TopoCfg, error) {
	example := TopoCfg{}
	if err := readDescFile(topoFileName, format, dict, &example); err != nil {
		return nil, err
	}
	return &example, nil
}

// Format selects the serialization used for description files
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	case FormatTOML:
		return "toml"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatFromExt picks the serialization format from a file name's extension
func FormatFromExt(filename string) (Format, error) {
	switch strings.ToLower(path.Ext(filename)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return FormatYAML, fmt.Errorf("cannot infer description format from file name %q", filename)
}

// Marshal serializes v in the format
func (f Format) Marshal(v any) ([]byte, error) {
	switch f {
	case FormatYAML:
		return yaml.Marshal(v)
	case FormatJSON:
		return json.MarshalIndent(v, "", "\t")
	case FormatTOML:
		return toml.Marshal(v)
	}
	return nil, fmt.Errorf("unsupported format %v", f)
}

// Unmarshal deserializes data in the format into v
func (f Format) Unmarshal(data []byte, v any) error {
	switch f {
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	case FormatJSON:
		return json.Unmarshal(data, v)
	case FormatTOML:
		return toml.Unmarshal(data, v)
	}
	return fmt.Errorf("unsupported format %v", f)
}

// writeDescFile serializes v with the format named by the file extension and writes it
func writeDescFile(filename string, v any) error {
	format, err := FormatFromExt(filename)
	if err != nil {
		return err
	}

	bytes, merr := format.Marshal(v)
	if merr != nil {
		return merr
	}

	f, cerr := os.Create(filename)
	if cerr != nil {
		return cerr
	}
	_, werr := f.Write(bytes)
	if werr != nil {
		f.Close()
		return werr
	}
	return f.Close()
}

// readDescFile deserializes dict into v.  If dict is empty the bytes are read from the named file.
func readDescFile(filename string, format Format, dict []byte, v any) error {
	// read from the file only if the byte slice is empty
	if len(dict) == 0 {
		fileInfo, err := os.Stat(filename)
		if os.IsNotExist(err) || (err == nil && fileInfo.IsDir()) {
			return fmt.Errorf("description file %s does not exist or cannot be read", filename)
		}
		dict, err = os.ReadFile(filename)
		if err != nil {
			return err
		}
	}

	return format.Unmarshal(dict, v)
}

// ReportErrs transforms a list of errors and transforms the non-nil ones into a single error
// with comma-separated report of all the constituent errors, and returns it.
func ReportErrs(errs []error) error {
	errMsg := make([]string, 0)
	for _, err := range errs {
		if err != nil {
			errMsg = append(errMsg, err.Error())
		}
	}
	if len(errMsg) == 0 {
		return nil
	}

	return errors.New(strings.Join(errMsg, ","))
}

// CheckDirectories probes the file system for the existence
// of every directory listed in the list of files.  Returns a boolean
// indicating whether all dirs are valid, and returns an aggregated error
// if any checks failed.
func CheckDirectories(dirs []string) (bool, error) {
	failures := []string{}

	for _, dir := range dirs {
		if len(dir) == 0 {
			continue
		}

		fileInfo, err := os.Stat(dir)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s not reachable", dir))
			continue
		}
		if !fileInfo.IsDir() {
			failures = append(failures, fmt.Sprintf("%s not a directory", dir))
		}
	}
	if len(failures) == 0 {
		return true, nil
	}

	return false, errors.New(strings.Join(failures, ","))
}

// CheckReadableFiles probes the file system to ensure that every
// one of the argument filenames exists and is readable
func CheckReadableFiles(names []string) (bool, error) {
	return CheckFiles(names, true)
}

// CheckOutputFiles probes the file system to ensure that every
// argument filename can be written.
func CheckOutputFiles(names []string) (bool, error) {
	return CheckFiles(names, false)
}

// CheckFiles probes the file system for permitted access to all the
// argument filenames, optionally checking also for the existence
// of those files for the purposes of reading them.
func CheckFiles(names []string, checkExistence bool) (bool, error) {
	errs := make([]error, 0)

	for _, name := range names {
		if len(name) == 0 {
			continue
		}

		// the directory holding the file has to be there
		directory, _ := filepath.Split(name)
		if directory == "" {
			directory = "."
		}
		if _, err := os.Stat(directory); err != nil {
			errs = append(errs, err)
		}

		if checkExistence {
			if _, err := os.Stat(name); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(errs) == 0 {
		return true, nil
	}
	return false, ReportErrs(errs)
}
