package nocgen

import (
	"bytes"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTopoFromFiles(t *testing.T) {
	dictFiles := map[string]string{
		OptionsFileKey: filepath.Join("testdata", "options.yaml"),
	}
	reg := CreateNodeRegistry()
	tc, err := BuildTopoFromFiles(dictFiles, reg)
	require.NoError(t, err)

	// 8 L1 and 8 directory controllers over 8 routers
	assert.Equal(t, "Mesh_3D-2x2x2", tc.Name)
	assert.Len(t, tc.Endpts, 16)
	assert.Len(t, tc.ExtLinks, 16)
	assert.Len(t, tc.IntLinks, 24)
	assert.Equal(t, 16, tc.IntLinks[0].LinkID)
	assert.Equal(t, 0, tc.ExtLinks[8].IntNode)
	assert.Equal(t, "dir_cntrl0", tc.ExtLinks[8].ExtNode)
	assert.Len(t, reg.Nodes, 8)
}

func TestBuildTopologyWithEndptsFile(t *testing.T) {
	dictFiles := map[string]string{
		EndptsFileKey: filepath.Join("testdata", "endpts.yaml"),
	}
	opts, endpts, err := GetTopoDicts(dictFiles)
	require.NoError(t, err)
	require.Len(t, endpts, 5)

	opts.NumCPUs = 4
	opts.Topology = RingDescription
	tc, err := BuildTopology(opts, endpts, nil)
	require.NoError(t, err)
	assert.Equal(t, "Ring-4", tc.Name)
	assert.Equal(t, 0, tc.ExtLinks[4].IntNode)
	assert.Equal(t, "dma_cntrl0", tc.ExtLinks[4].ExtNode)
}

func TestBuildTopologyFailureRegistersNothing(t *testing.T) {
	opts := meshOptions(6, 2, 2)
	reg := CreateNodeRegistry()
	_, err := BuildTopology(opts, DefaultControllers(opts), reg)
	assert.Error(t, err)
	assert.Empty(t, reg.Nodes)

	opts = CreateOptions()
	opts.Topology = "Crossbar"
	_, err = BuildTopology(opts, DefaultControllers(opts), reg)
	assert.Error(t, err)
}

func TestGetTopoDictsReportsAll(t *testing.T) {
	dictFiles := map[string]string{
		OptionsFileKey: filepath.Join("testdata", "absent.yaml"),
		EndptsFileKey:  filepath.Join("testdata", "absent.json"),
	}
	_, _, err := GetTopoDicts(dictFiles)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.yaml")
	assert.Contains(t, err.Error(), "absent.json")

	_, _, err = GetTopoDicts(map[string]string{OptionsFileKey: "options.ini"})
	assert.Error(t, err)
}

func TestLoadTopoCfg(t *testing.T) {
	tc := builtRing(t, 5)
	filename := filepath.Join(t.TempDir(), "ring.toml")
	require.NoError(t, tc.WriteToFile(filename))

	loaded, err := LoadTopoCfg(filename)
	require.NoError(t, err)
	assert.Equal(t, tc.Name, loaded.Name)

	tc.IntLinks = tc.IntLinks[1:]
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, tc.WriteToFile(bad))
	_, err = LoadTopoCfg(bad)
	assert.Error(t, err)
}

func TestBuildLogsThroughInstalledLogger(t *testing.T) {
	var buf bytes.Buffer
	l := log.New()
	l.SetOutput(&buf)
	l.SetLevel(log.DebugLevel)
	SetLogger(l)
	defer SetLogger(nil)

	opts := meshOptions(4, 2, 2)
	opts.NumDirs = 4
	_, err := BuildTopology(opts, DefaultControllers(opts), CreateNodeRegistry())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "built topology")
	assert.Contains(t, buf.String(), "registered memory nodes")
	assert.Contains(t, buf.String(), "share=\"128 MiB\"")
	assert.Same(t, l, Logger())
}
