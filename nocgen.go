// Package nocgen builds the interconnection networks the simulator host runs its
// cache-coherence protocols over: routers laid out as a 3-D mesh or a ring, the
// controllers spread across those routers, and the directed links joining them all.
// It also reads back the network statistics the host reports and plots them.
package nocgen

// file nocgen.go bundles reading the input files, building, and registering a topology

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// keys of the dictFiles map naming the input files of a build
const (
	OptionsFileKey = "options"
	EndptsFileKey  = "endpts"
)

// LoadOptions reads the options file, whose extension selects the format.
// An empty name gives the defaults.
func LoadOptions(optsFile string) (*Options, error) {
	if len(optsFile) == 0 {
		return CreateOptions(), nil
	}
	format, err := FormatFromExt(optsFile)
	if err != nil {
		return nil, err
	}
	return ReadOptions(optsFile, format, nil)
}

// LoadControllers reads the controller list file.  An empty name gives the
// controllers the host creates by default for opts.
func LoadControllers(endptsFile string, opts *Options) ([]Endpoint, error) {
	if len(endptsFile) == 0 {
		return DefaultControllers(opts), nil
	}
	format, err := FormatFromExt(endptsFile)
	if err != nil {
		return nil, err
	}
	el, err := ReadEndptList(endptsFile, format, nil)
	if err != nil {
		return nil, err
	}
	return el.Frames(), nil
}

// LoadTopoCfg reads a topology description file and checks it
func LoadTopoCfg(topoFile string) (*TopoCfg, error) {
	format, err := FormatFromExt(topoFile)
	if err != nil {
		return nil, err
	}
	tc, err := ReadTopoCfg(topoFile, format, nil)
	if err != nil {
		return nil, err
	}
	if err := tc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", topoFile, err)
	}
	return tc, nil
}

// BuildTopology selects the topology named by opts, builds it over the controllers,
// and, when reg is not nil, registers each router's share of memory with reg.
// Nothing is registered if the build fails.
func BuildTopology(opts *Options, controllers []Endpoint, reg NodeRegistrar) (*TopoCfg, error) {
	topo, err := CreateTopology(opts.Topology, controllers)
	if err != nil {
		return nil, err
	}

	tf, err := topo.MakeTopology(opts)
	if err != nil {
		return nil, err
	}

	tc := tf.Transform()
	if err := tc.Validate(); err != nil {
		return nil, fmt.Errorf("built %s fails its checks: %w", tc.Name, err)
	}

	if reg != nil {
		if err := topo.RegisterTopology(opts, reg); err != nil {
			return nil, err
		}
	}

	logger.WithFields(log.Fields{
		"topology":    tc.Name,
		"controllers": len(tc.Endpts),
		"links":       tf.NumLinks(),
	}).Info("topology built")
	return &tc, nil
}

// GetTopoDicts accepts a map that holds the names of the input files of a build
// and returns the options and controllers they hold.  Every file is read before any
// error is reported, and all the errors are reported together.
func GetTopoDicts(dictFiles map[string]string) (*Options, []Endpoint, error) {
	opts, err1 := LoadOptions(dictFiles[OptionsFileKey])
	if err1 != nil {
		// the default controller list depends on the options, fall back to the defaults
		opts = CreateOptions()
	}
	controllers, err2 := LoadControllers(dictFiles[EndptsFileKey], opts)

	errs := []error{err1, err2}
	if err := ReportErrs(errs); err != nil {
		return nil, nil, err
	}
	return opts, controllers, nil
}

// BuildTopoFromFiles bundles GetTopoDicts and BuildTopology
func BuildTopoFromFiles(dictFiles map[string]string, reg NodeRegistrar) (*TopoCfg, error) {
	opts, controllers, err := GetTopoDicts(dictFiles)
	if err != nil {
		return nil, err
	}
	return BuildTopology(opts, controllers, reg)
}
