// statplot reads the network statistics of a sweep of synthetic traffic runs and
// plots average packet latency against injection rate, one curve per section.
package main

import (
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/linhx233/nocgen"
)

var logger *log.Logger

var statplotFlags struct {
	outDir  string
	plot    string
	report  string
	summary string
	verbose bool
}

var rootCmd = &cobra.Command{
	Use:   "statplot [network_stats.txt]",
	Short: "Plot average packet latency against injection rate",
	Args:  cobra.MaximumNArgs(1),
	Long: `'statplot' parses a network statistics file and saves a log-scale plot of the latency
curves it holds.  Each section header names a curve by its last word.  By default the
plot is saved as lab3-<KIND>.png, KIND being taken from the last section header.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		initLogger(statplotFlags.verbose)

		statsFile := "network_stats.txt"
		if len(args) > 0 {
			statsFile = args[0]
		}
		return run(statsFile)
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&statplotFlags.outDir, "outDir", ".", "directory output files are written to")
	flags.StringVar(&statplotFlags.plot, "plot", "", "plot file name, lab3-<KIND>.png when empty")
	flags.StringVar(&statplotFlags.report, "report", "", "output file holding the parsed series (yaml, json or toml)")
	flags.StringVar(&statplotFlags.summary, "summary", "", "output file holding per-series latency summaries")
	flags.BoolVarP(&statplotFlags.verbose, "verbose", "v", false, "log each step")
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

func outputPath(name string) string {
	if len(name) == 0 {
		return ""
	}
	return filepath.Join(statplotFlags.outDir, name)
}

func run(statsFile string) error {
	valid, err := nocgen.CheckDirectories([]string{statplotFlags.outDir})
	if !valid {
		return err
	}
	valid, err = nocgen.CheckReadableFiles([]string{statsFile})
	if !valid {
		return err
	}

	if info, serr := os.Stat(statsFile); serr == nil {
		logger.WithFields(log.Fields{
			"file": statsFile,
			"size": humanize.Bytes(uint64(info.Size())),
		}).Debug("reading statistics")
	}

	report, err := nocgen.ReadNetworkStats(statsFile)
	if err != nil {
		return err
	}

	plotName := statplotFlags.plot
	if len(plotName) == 0 {
		plotName = report.PlotFileName()
	}
	plotFile := outputPath(plotName)
	reportFile := outputPath(statplotFlags.report)
	summaryFile := outputPath(statplotFlags.summary)

	valid, err = nocgen.CheckOutputFiles([]string{plotFile, reportFile, summaryFile})
	if !valid {
		return err
	}

	errs := []error{nocgen.RenderLatencyPlot(report, plotFile)}
	if len(reportFile) > 0 {
		errs = append(errs, report.WriteToFile(reportFile))
	}
	if len(summaryFile) > 0 {
		errs = append(errs, writeSummary(summaryFile, report))
	}
	if err := nocgen.ReportErrs(errs); err != nil {
		return err
	}

	logger.WithFields(log.Fields{
		"series": len(report.Series),
		"kind":   report.Kind,
	}).Infof("wrote %s", plotFile)
	return nil
}

// seriesSummaries is the layout of the summary file
type seriesSummaries struct {
	Kind   string                 `json:"kind" yaml:"kind" toml:"kind"`
	Series []nocgen.SeriesSummary `json:"series" yaml:"series" toml:"series"`
}

func writeSummary(summaryFile string, report *nocgen.StatsReport) error {
	format, err := nocgen.FormatFromExt(summaryFile)
	if err != nil {
		return err
	}
	bytes, err := format.Marshal(seriesSummaries{Kind: report.Kind, Series: report.Summarize()})
	if err != nil {
		return err
	}
	return os.WriteFile(summaryFile, bytes, 0o644)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
