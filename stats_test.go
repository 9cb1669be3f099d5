package nocgen

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNetworkStats(t *testing.T) {
	testCases := []struct {
		desc  string
		input string
		want  *StatsReport
	}{
		{
			desc:  "empty",
			input: "",
			want:  &StatsReport{Series: []Series{}},
		},
		{
			desc: "one section",
			input: "SYNTHETIC TRAFFIC uniform_random\n" +
				"0.1 sim_ticks 100 latency 20.5 hops 3\n" +
				"\n" +
				"0.2 sim_ticks 100 latency 40 hops 3.25\n",
			want: &StatsReport{
				Kind: "SYNTHETIC_TRAFFIC",
				Series: []Series{{
					Name: "uniform_random", Kind: "SYNTHETIC_TRAFFIC",
					Points: []StatPoint{{0.1, 20.5, 3}, {0.2, 40, 3.25}},
				}},
			},
		},
		{
			desc: "kind follows the last header",
			input: "# VCS PER VNET 2\n0.01 10 2\n" +
				"# VCS PER VNET 4\n0.01 9 2\n" +
				"# ROUTER LATENCY 3\n0.01 -1 12.75 2\n",
			want: &StatsReport{
				Kind: "ROUTER_LATENCY",
				Series: []Series{
					{Name: "2", Kind: "VCS_PER_VNET", Points: []StatPoint{{0.01, 10, 2}}},
					{Name: "4", Kind: "VCS_PER_VNET", Points: []StatPoint{{0.01, 9, 2}}},
					{Name: "3", Kind: "ROUTER_LATENCY", Points: []StatPoint{{0.01, 12.75, 2}}},
				},
			},
		},
		{
			desc:  "measurements before any header are dropped",
			input: "0.5 100 4\nLINK WIDTH BITS 128\n   \n0.5 80 4\nVC TYPE empty\n",
			want: &StatsReport{
				Kind: "VC_TYPE",
				Series: []Series{
					{Name: "128", Kind: "LINK_WIDTH_BITS", Points: []StatPoint{{0.5, 80, 4}}},
					{Name: "empty", Kind: "VC_TYPE", Points: []StatPoint{}},
				},
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := ParseNetworkStats(strings.NewReader(tc.input))
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("report mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseNetworkStatsShortLine(t *testing.T) {
	input := "SYNTHETIC TRAFFIC bit_complement\n0.1 20 2\nno numbers here, only 1\n"
	_, err := ParseNetworkStats(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestParseNetworkStatsLongLine(t *testing.T) {
	// a measurement line well past the scanner's default token size
	input := "SYNTHETIC TRAFFIC shuffle\n" +
		"0.1 " + strings.Repeat("x", 100000) + " 20 2\n"
	report, err := ParseNetworkStats(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, report.Series, 1)
	assert.Equal(t, []StatPoint{{0.1, 20, 2}}, report.Series[0].Points)
}

func TestReadNetworkStatsTestdata(t *testing.T) {
	report, err := ReadNetworkStats(filepath.Join("testdata", "network_stats.txt"))
	require.NoError(t, err)

	assert.Equal(t, "SYNTHETIC_TRAFFIC", report.Kind)
	assert.Equal(t, "lab3-SYNTHETIC_TRAFFIC.png", report.PlotFileName())
	assert.Equal(t, []string{"uniform_random", "tornado"}, report.SeriesNames())
	require.Len(t, report.Series[0].Points, 3)
	assert.Equal(t, StatPoint{InjRate: 0.3, Latency: 412.75, Hops: 2.68}, report.Series[0].Points[2])

	sums := report.Summarize()
	require.Len(t, sums, 2)
	assert.Equal(t, 3, sums[0].Points)
	assert.InDelta(t, 14.52, sums[0].MinLatency, 1e-9)
	assert.InDelta(t, 412.75, sums[0].MaxLatency, 1e-9)
	assert.InDelta(t, (14.52+16.10+412.75)/3, sums[0].MeanLatency, 1e-9)
	assert.InDelta(t, 2.0, sums[1].MeanHops, 1e-9)

	_, err = ReadNetworkStats(filepath.Join("testdata", "absent.txt"))
	assert.Error(t, err)
}

func TestStatsReportFile(t *testing.T) {
	report, err := ReadNetworkStats(filepath.Join("testdata", "network_stats.txt"))
	require.NoError(t, err)

	filename := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, report.WriteToFile(filename))
	readBack, err := ReadStatsReport(filename, FormatJSON, nil)
	require.NoError(t, err)
	if diff := cmp.Diff(report, readBack); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeEmptySeries(t *testing.T) {
	s := Series{Name: "none"}
	assert.Equal(t, SeriesSummary{Name: "none"}, s.Summarize())
}
