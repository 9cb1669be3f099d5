package nocgen

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemBytes(t *testing.T) {
	testCases := []struct {
		memSize string
		want    uint64
		wantErr bool
	}{
		{memSize: "512MB", want: 512 << 20},
		{memSize: "512MiB", want: 512 << 20},
		{memSize: "2GB", want: 2 << 30},
		{memSize: "4096", want: 4096},
		{memSize: "", wantErr: true},
		{memSize: "big", wantErr: true},
	}
	for _, tc := range testCases {
		opts := CreateOptions()
		opts.MemSize = tc.memSize
		got, err := opts.MemBytes()
		if tc.wantErr {
			assert.Error(t, err, "mem_size %q", tc.memSize)
			continue
		}
		require.NoError(t, err, "mem_size %q", tc.memSize)
		assert.Equal(t, tc.want, got, "mem_size %q", tc.memSize)
	}
}

func TestReadOptionsKeepsDefaults(t *testing.T) {
	dict := []byte("num_cpus: 16\nmesh_rows: 4\nmesh_cols: 2\n")
	opts, err := ReadOptions("", FormatYAML, dict)
	require.NoError(t, err)

	want := CreateOptions()
	want.NumCPUs = 16
	want.MeshRows = 4
	want.MeshCols = 2
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestOptionsFileRoundTrip(t *testing.T) {
	opts := CreateOptions()
	opts.NumCPUs = 8
	opts.NumDMAs = 2
	opts.Topology = RingDescription
	opts.MemSize = "1GB"

	dir := t.TempDir()
	for _, name := range []string{"opts.yaml", "opts.json", "opts.toml"} {
		filename := filepath.Join(dir, name)
		require.NoError(t, opts.WriteToFile(filename))
		format, err := FormatFromExt(filename)
		require.NoError(t, err)
		got, err := ReadOptions(filename, format, nil)
		require.NoError(t, err)
		assert.Equal(t, opts, got, name)
	}
}

func TestReadOptionsTestdata(t *testing.T) {
	opts, err := ReadOptions(filepath.Join("testdata", "options.yaml"), FormatYAML, nil)
	require.NoError(t, err)
	assert.Equal(t, 8, opts.NumRouters())
	assert.Equal(t, Mesh3DDescription, opts.Topology)

	dims, err := MeshDims(opts)
	require.NoError(t, err)
	assert.Equal(t, GridDims{Cols: 2, Rows: 2, Depth: 2}, dims)
}

func TestDefaultControllers(t *testing.T) {
	opts := CreateOptions()
	opts.NumCPUs = 2
	opts.NumDirs = 1
	opts.NumDMAs = 1

	want := []EndptDesc{
		{Name: "l1_cntrl0", Type: L1CacheControllerType},
		{Name: "l1_cntrl1", Type: L1CacheControllerType},
		{Name: "dir_cntrl0", Type: DirectoryControllerType},
		{Name: "dma_cntrl0", Type: DMAControllerType},
	}
	el := CreateEndptList("defaults", DefaultControllers(opts))
	if diff := cmp.Diff(want, el.Endpts); diff != "" {
		t.Errorf("controllers mismatch (-want +got):\n%s", diff)
	}
}

func TestEndptList(t *testing.T) {
	el, err := ReadEndptList(filepath.Join("testdata", "endpts.yaml"), FormatYAML, nil)
	require.NoError(t, err)
	assert.Equal(t, "four-cpus-one-dma", el.ListName)

	frames := el.Frames()
	require.Len(t, frames, 5)
	assert.Equal(t, "dma_cntrl0", frames[4].EndptName())
	assert.Equal(t, DMAControllerType, frames[4].EndptType())

	filename := filepath.Join(t.TempDir(), "endpts.toml")
	require.NoError(t, el.WriteToFile(filename))
	readBack, err := ReadEndptList(filename, FormatTOML, nil)
	require.NoError(t, err)
	assert.Equal(t, el, readBack)
}
