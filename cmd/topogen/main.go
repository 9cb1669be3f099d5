// topogen builds a Mesh_3D or Ring topology from an options file (or flags) and writes
// its description, optionally registering each router's memory node with a /sys tree.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/linhx233/nocgen"
)

var logger *log.Logger

var topogenFlags struct {
	libDir   string
	opts     string
	endpts   string
	topo     string
	dict     string
	registry string
	sysOut   string
	analysis string
	verbose  bool

	topology      string
	numCPUs       int
	numDirs       int
	numDMAs       int
	meshRows      int
	meshCols      int
	linkLatency   int
	routerLatency int
	memSize       string
}

var rootCmd = &cobra.Command{
	Use:   "topogen",
	Short: "Build a Mesh_3D or Ring interconnect description",
	Args:  cobra.NoArgs,
	Long: `'topogen' builds the routers, controller links and router links of a topology.

Options are read from --opts (yaml, json or toml by extension); the flags named after
host options (--num-cpus, --mesh-rows, ...) override the file.  Without --endpts the
controllers are the ones the host creates by default: one L1 cache controller per CPU,
then the directory and DMA controllers.  Output file names are taken relative to --libDir.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		initLogger(topogenFlags.verbose)
		return run(cmd)
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&topogenFlags.libDir, "libDir", ".", "directory output files are written to")
	flags.StringVar(&topogenFlags.opts, "opts", "", "options file")
	flags.StringVar(&topogenFlags.endpts, "endpts", "", "controller list file")
	flags.StringVar(&topogenFlags.topo, "topo", "topo.yaml", "topology description output file")
	flags.StringVar(&topogenFlags.dict, "dict", "", "topology dictionary file the description is added to")
	flags.StringVar(&topogenFlags.registry, "registry", "", "output file listing the registered memory nodes")
	flags.StringVar(&topogenFlags.sysOut, "sysOut", "", "host output directory to write fs/sys/devices/system/node under")
	flags.StringVar(&topogenFlags.analysis, "analysis", "", "output file for hop-count analysis of the topology")
	flags.BoolVarP(&topogenFlags.verbose, "verbose", "v", false, "log each build step")

	flags.StringVar(&topogenFlags.topology, "topology", nocgen.Mesh3DDescription, "topology to build, Mesh_3D or Ring")
	flags.IntVar(&topogenFlags.numCPUs, "num-cpus", 1, "number of CPUs, which is also the number of routers")
	flags.IntVar(&topogenFlags.numDirs, "num-dirs", 1, "number of directory controllers")
	flags.IntVar(&topogenFlags.numDMAs, "num-dmas", 0, "number of DMA controllers")
	flags.IntVar(&topogenFlags.meshRows, "mesh-rows", 0, "rows of each mesh layer")
	flags.IntVar(&topogenFlags.meshCols, "mesh-cols", 0, "columns of each mesh layer")
	flags.IntVar(&topogenFlags.linkLatency, "link-latency", 1, "latency of every link, in cycles")
	flags.IntVar(&topogenFlags.routerLatency, "router-latency", 1, "latency of every router, in cycles")
	flags.StringVar(&topogenFlags.memSize, "mem-size", "512MB", "simulated memory, split evenly over the routers")
}

func initLogger(verbose bool) {
	logger = log.New()
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	logger.SetOutput(os.Stderr)
	logger.SetLevel(log.InfoLevel)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	nocgen.SetLogger(logger)
}

// overrideOptions copies the host option flags set on the command line into opts
func overrideOptions(cmd *cobra.Command, opts *nocgen.Options) {
	flags := cmd.Flags()
	if flags.Changed("topology") {
		opts.Topology = topogenFlags.topology
	}
	if flags.Changed("num-cpus") {
		opts.NumCPUs = topogenFlags.numCPUs
	}
	if flags.Changed("num-dirs") {
		opts.NumDirs = topogenFlags.numDirs
	}
	if flags.Changed("num-dmas") {
		opts.NumDMAs = topogenFlags.numDMAs
	}
	if flags.Changed("mesh-rows") {
		opts.MeshRows = topogenFlags.meshRows
	}
	if flags.Changed("mesh-cols") {
		opts.MeshCols = topogenFlags.meshCols
	}
	if flags.Changed("link-latency") {
		opts.LinkLatency = topogenFlags.linkLatency
	}
	if flags.Changed("router-latency") {
		opts.RouterLatency = topogenFlags.routerLatency
	}
	if flags.Changed("mem-size") {
		opts.MemSize = topogenFlags.memSize
	}
}

// outputPath joins a non-empty file name to the library directory
func outputPath(name string) string {
	if len(name) == 0 {
		return ""
	}
	return filepath.Join(topogenFlags.libDir, name)
}

func run(cmd *cobra.Command) error {
	// make sure the library directory exists
	valid, err := nocgen.CheckDirectories([]string{topogenFlags.libDir})
	if !valid {
		return err
	}

	topoFile := outputPath(topogenFlags.topo)
	dictFile := outputPath(topogenFlags.dict)
	registryFile := outputPath(topogenFlags.registry)
	analysisFile := outputPath(topogenFlags.analysis)

	valid, err = nocgen.CheckReadableFiles([]string{topogenFlags.opts, topogenFlags.endpts})
	if !valid {
		return err
	}
	valid, err = nocgen.CheckOutputFiles([]string{topoFile, dictFile, registryFile, analysisFile})
	if !valid {
		return err
	}

	opts, err := nocgen.LoadOptions(topogenFlags.opts)
	if err != nil {
		return err
	}
	overrideOptions(cmd, opts)

	controllers, err := nocgen.LoadControllers(topogenFlags.endpts, opts)
	if err != nil {
		return err
	}

	registry := nocgen.CreateNodeRegistry()
	registrars := nocgen.Registrars{registry}
	if len(topogenFlags.sysOut) > 0 {
		registrars = append(registrars, nocgen.CreateSysfsRegistrar(afero.NewOsFs(), topogenFlags.sysOut))
	}

	tc, err := nocgen.BuildTopology(opts, controllers, registrars)
	if err != nil {
		return err
	}

	errs := []error{tc.WriteToFile(topoFile)}
	if len(dictFile) > 0 {
		errs = append(errs, addToDict(dictFile, tc))
	}
	if len(registryFile) > 0 {
		errs = append(errs, registry.WriteToFile(registryFile))
	}
	if len(analysisFile) > 0 {
		an, aerr := nocgen.AnalyzeTopology(tc)
		if aerr == nil {
			aerr = an.WriteToFile(analysisFile)
			logger.WithFields(log.Fields{
				"diameter":  an.Diameter,
				"mean_hops": fmt.Sprintf("%.3f", an.MeanHops),
			}).Info("analyzed topology")
		}
		errs = append(errs, aerr)
	}
	if err := nocgen.ReportErrs(errs); err != nil {
		return err
	}

	logger.WithField("file", topoFile).Infof("wrote %s", tc.Name)
	return nil
}

// addToDict adds tc to the dictionary in dictFile, creating the dictionary if the file is absent
func addToDict(dictFile string, tc *nocgen.TopoCfg) error {
	tcd := nocgen.CreateTopoCfgDict("TopoCfg-" + tc.Kind)
	if _, err := os.Stat(dictFile); err == nil {
		format, ferr := nocgen.FormatFromExt(dictFile)
		if ferr != nil {
			return ferr
		}
		tcd, err = nocgen.ReadTopoCfgDict(dictFile, format, nil)
		if err != nil {
			return err
		}
		if tcd.Cfgs == nil {
			tcd.Cfgs = make(map[string]nocgen.TopoCfg)
		}
	}
	if err := tcd.AddTopoCfg(tc, true); err != nil {
		return err
	}
	return tcd.WriteToFile(dictFile)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
