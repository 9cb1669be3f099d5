package nocgen

// file stats.go reads the network statistics gathered from a sweep of synthetic
// traffic runs: sections of lines, each giving an injection rate, the average packet
// latency, and the average hop count measured at that rate

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// statSection maps the marker a section header line contains to the kind of sweep it starts
type statSection struct {
	marker string
	kind   string
}

// sections are tested in this order
var sections = []statSection{
	{marker: "SYNTHETIC TRAFFIC", kind: "SYNTHETIC_TRAFFIC"},
	{marker: "VCS PER VNET", kind: "VCS_PER_VNET"},
	{marker: "ROUTER LATENCY", kind: "ROUTER_LATENCY"},
	{marker: "LINK WIDTH BITS", kind: "LINK_WIDTH_BITS"},
	{marker: "VC TYPE", kind: "VC_TYPE"},
}

var numberPattern = regexp.MustCompile(`-?\d+\.?\d*`)

// maxStatsLine bounds the length of a single line of a statistics file
const maxStatsLine = 16 << 20

// StatPoint is one measurement of a sweep
type StatPoint struct {
	InjRate float64 `json:"injrate" yaml:"injrate" toml:"injrate"`
	Latency float64 `json:"latency" yaml:"latency" toml:"latency"`
	Hops    float64 `json:"hops" yaml:"hops" toml:"hops"`
}

// Series is the measurements of one section, named by the last word of its header
type Series struct {
	Name   string      `json:"name" yaml:"name" toml:"name"`
	Kind   string      `json:"kind" yaml:"kind" toml:"kind"`
	Points []StatPoint `json:"points" yaml:"points" toml:"points"`
}

// StatsReport holds every series of a statistics file, in file order.
// Kind is the kind of the last section header read.
type StatsReport struct {
	Kind   string   `json:"kind" yaml:"kind" toml:"kind"`
	Series []Series `json:"series" yaml:"series" toml:"series"`
}

// ParseNetworkStats reads a statistics file.  A line containing a section marker starts
// a new series.  Every other line that is not blank is a measurement: the numbers in it
// give the injection rate (first), latency (second to last) and hop count (last).
// Measurements before the first header belong to no series and are dropped.
func ParseNetworkStats(r io.Reader) (*StatsReport, error) {
	report := &StatsReport{Series: make([]Series, 0)}
	current := -1

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxStatsLine)
	lineNum := 0
	for scanner.Scan() {
		lineNum += 1
		line := scanner.Text()
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}

		if kind, isHeader := sectionKind(line); isHeader {
			fields := strings.Fields(line)
			report.Kind = kind
			report.Series = append(report.Series, Series{Name: fields[len(fields)-1], Kind: kind, Points: make([]StatPoint, 0)})
			current = len(report.Series) - 1
			continue
		}

		data, err := extractNumbers(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if len(data) < 2 {
			return nil, fmt.Errorf("line %d: measurement %q holds %d numbers, needs at least 2", lineNum, line, len(data))
		}
		if current < 0 {
			continue
		}
		report.Series[current].Points = append(report.Series[current].Points,
			StatPoint{InjRate: data[0], Latency: data[len(data)-2], Hops: data[len(data)-1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return report, nil
}

// ReadNetworkStats parses the named statistics file
func ReadNetworkStats(filename string) (*StatsReport, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseNetworkStats(f)
}

func sectionKind(line string) (string, bool) {
	for _, sec := range sections {
		if strings.Contains(line, sec.marker) {
			return sec.kind, true
		}
	}
	return "", false
}

func extractNumbers(text string) ([]float64, error) {
	matches := numberPattern.FindAllString(text, -1)
	nums := make([]float64, len(matches))
	for idx, numStr := range matches {
		num, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			return nil, err
		}
		nums[idx] = num
	}
	return nums, nil
}

// PlotFileName is the name the latency plot of the report is saved under
func (sr *StatsReport) PlotFileName() string {
	return "lab3-" + sr.Kind + ".png"
}

// SeriesNames lists the series names in file order
func (sr *StatsReport) SeriesNames() []string {
	names := make([]string, len(sr.Series))
	for idx, s := range sr.Series {
		names[idx] = s.Name
	}
	return names
}

// WriteToFile stores the report to the file whose name is given.
// Serialization to json, yaml, or toml is selected based on the extension of this name.
func (sr *StatsReport) WriteToFile(filename string) error {
	return writeDescFile(filename, sr)
}

// ReadStatsReport deserializes a StatsReport, from dict or (if dict is empty) from the named file
func ReadStatsReport(filename string, format Format, dict []byte) (*StatsReport, error) {
	example := StatsReport{}
	if err := readDescFile(filename, format, dict, &example); err != nil {
		return nil, err
	}
	return &example, nil
}

// SeriesSummary condenses one series
type SeriesSummary struct {
	Name        string  `json:"name" yaml:"name" toml:"name"`
	Points      int     `json:"points" yaml:"points" toml:"points"`
	MinLatency  float64 `json:"minlatency" yaml:"minlatency" toml:"minlatency"`
	MaxLatency  float64 `json:"maxlatency" yaml:"maxlatency" toml:"maxlatency"`
	MeanLatency float64 `json:"meanlatency" yaml:"meanlatency" toml:"meanlatency"`
	MeanHops    float64 `json:"meanhops" yaml:"meanhops" toml:"meanhops"`
}

// Summarize returns the latency range and means of the series.  An empty series summarizes to zeros.
func (s *Series) Summarize() SeriesSummary {
	ss := SeriesSummary{Name: s.Name, Points: len(s.Points)}
	if len(s.Points) == 0 {
		return ss
	}

	latency := make([]float64, len(s.Points))
	hops := make([]float64, len(s.Points))
	for idx, pt := range s.Points {
		latency[idx] = pt.Latency
		hops[idx] = pt.Hops
	}

	ss.MinLatency = floats.Min(latency)
	ss.MaxLatency = floats.Max(latency)
	ss.MeanLatency = stat.Mean(latency, nil)
	ss.MeanHops = stat.Mean(hops, nil)
	return ss
}

// Summarize summarizes every series of the report, in file order
func (sr *StatsReport) Summarize() []SeriesSummary {
	sums := make([]SeriesSummary, len(sr.Series))
	for idx := range sr.Series {
		sums[idx] = sr.Series[idx].Summarize()
	}
	return sums
}
