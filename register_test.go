package nocgen

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexMask(t *testing.T) {
	testCases := []struct {
		cpus []int
		want string
	}{
		{cpus: nil, want: "00000000"},
		{cpus: []int{0}, want: "00000001"},
		{cpus: []int{3}, want: "00000008"},
		{cpus: []int{0, 1, 4}, want: "00000013"},
		{cpus: []int{31}, want: "80000000"},
		{cpus: []int{32}, want: "100000000"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, HexMask(tc.cpus), "cpus %v", tc.cpus)
	}
	assert.Equal(t, "0,2,5", CPUList([]int{0, 2, 5}))
}

func TestSysfsRegistrar(t *testing.T) {
	fs := afero.NewMemMapFs()
	sr := CreateSysfsRegistrar(fs, "m5out")

	opts := meshOptions(4, 2, 2)
	opts.MemSize = "512MB"
	require.NoError(t, CreateMesh3D(controllers(4, 0)).RegisterTopology(opts, sr))

	nodeDir := filepath.Join("m5out", "fs", "sys", "devices", "system", "node", "node2")
	assert.Equal(t, nodeDir, sr.NodeDir(2))

	cpumap, err := afero.ReadFile(fs, filepath.Join(nodeDir, "cpumap"))
	require.NoError(t, err)
	assert.Equal(t, "00000004\n", string(cpumap))

	cpulist, err := afero.ReadFile(fs, filepath.Join(nodeDir, "cpulist"))
	require.NoError(t, err)
	assert.Equal(t, "2\n", string(cpulist))

	meminfo, err := afero.ReadFile(fs, filepath.Join(nodeDir, "meminfo"))
	require.NoError(t, err)
	assert.Equal(t, "Node 2 MemTotal: 131072kB\n", string(meminfo))

	exists, err := afero.DirExists(fs, sr.NodeDir(4))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSysfsRegistrarReadOnly(t *testing.T) {
	sr := CreateSysfsRegistrar(afero.NewReadOnlyFs(afero.NewMemMapFs()), "m5out")
	assert.Error(t, sr.RegisterNode([]int{0}, 1024, 0))
}

func TestNodeRegistry(t *testing.T) {
	nr := CreateNodeRegistry()
	require.NoError(t, nr.RegisterNode([]int{0}, 1<<20, 0))
	require.NoError(t, nr.RegisterNode([]int{1}, 1<<20, 1))
	assert.Error(t, nr.RegisterNode([]int{2}, 1<<20, 1))
	assert.Equal(t, uint64(2<<20), nr.TotalMemBytes())

	filename := filepath.Join(t.TempDir(), "nodes.yaml")
	require.NoError(t, nr.WriteToFile(filename))
}

// failingRegistrar refuses every node from failAt on
type failingRegistrar struct {
	failAt int
	seen   []int
}

func (fr *failingRegistrar) RegisterNode(cpus []int, memBytes uint64, nodeID int) error {
	if nodeID >= fr.failAt {
		return errors.New("refused")
	}
	fr.seen = append(fr.seen, nodeID)
	return nil
}

func TestRegistrarsFanOut(t *testing.T) {
	nr := CreateNodeRegistry()
	fs := afero.NewMemMapFs()
	rs := Registrars{nr, CreateSysfsRegistrar(fs, "out")}

	require.NoError(t, rs.RegisterNode([]int{0}, 2048, 0))
	assert.Len(t, nr.Nodes, 1)
	exists, err := afero.Exists(fs, filepath.Join("out", "fs", "sys", "devices", "system", "node", "node0", "meminfo"))
	require.NoError(t, err)
	assert.True(t, exists)

	fr := &failingRegistrar{failAt: 2}
	opts := CreateOptions()
	opts.NumCPUs = 4
	err = CreateRing(controllers(4, 0)).RegisterTopology(opts, fr)
	assert.Error(t, err)
	assert.Equal(t, []int{0, 1}, fr.seen)
}
