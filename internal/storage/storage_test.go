package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/synthfield/internal/field"
	"github.com/san-kum/synthfield/internal/generate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSample(t *testing.T) *generate.Result {
	t.Helper()
	cfg := generate.DefaultRandomConfig()
	cfg.NumRepellers = 1
	res, err := generate.Sample(6, 12, &cfg, field.DefaultOptions())
	require.NoError(t, err)
	return res
}

func TestHDF5RoundTrip(t *testing.T) {
	res := testSample(t)
	path := filepath.Join(t.TempDir(), "sample.hdf5")

	require.NoError(t, WriteHDF5(path, res.Fields))

	loaded, err := ReadHDF5(path)
	require.NoError(t, err)
	assert.Equal(t, 6, loaded.N())
	assert.True(t, loaded.Equal(res.Fields), "fields differ after round trip")
}

func TestHDF5Overwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.hdf5")
	require.NoError(t, WriteHDF5(path, field.NewFields(3)))
	require.NoError(t, WriteHDF5(path, field.NewFields(4)))

	loaded, err := ReadHDF5(path)
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.N())
}

func TestWriteRejectsMismatchedShapes(t *testing.T) {
	fs := field.NewFields(3)
	fs.VY = field.NewField(2)
	dir := t.TempDir()

	assert.ErrorIs(t, WriteHDF5(filepath.Join(dir, "bad.hdf5"), fs), field.ErrShapeMismatch)
	assert.ErrorIs(t, WriteNPZ(filepath.Join(dir, "bad.npz"), fs, nil), field.ErrShapeMismatch)
}

func TestNPZRoundTrip(t *testing.T) {
	res := testSample(t)
	path := filepath.Join(t.TempDir(), "sample.npz")

	extra := map[string][]float32{"mask": make([]float32, 216)}
	require.NoError(t, WriteNPZ(path, res.Fields, extra))

	loaded, err := ReadNPZ(path)
	require.NoError(t, err)
	assert.True(t, loaded.Equal(res.Fields), "fields differ after round trip")
}

func TestNPZRejectsReservedExtra(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.npz")
	err := WriteNPZ(path, field.NewFields(2), map[string][]float32{"vx": make([]float32, 8)})
	assert.Error(t, err)
}

func TestSideFor(t *testing.T) {
	side, err := sideFor([]int{4, 4, 4}, 64)
	require.NoError(t, err)
	assert.Equal(t, 4, side)

	side, err = sideFor([]int{27}, 27)
	require.NoError(t, err)
	assert.Equal(t, 3, side)

	_, err = sideFor([]int{2, 3, 4}, 24)
	assert.ErrorIs(t, err, field.ErrShapeMismatch)

	_, err = sideFor(nil, 10)
	assert.ErrorIs(t, err, field.ErrShapeMismatch)
}

func TestSourcesCSVRoundTrip(t *testing.T) {
	res := testSample(t)
	path := filepath.Join(t.TempDir(), "sources.csv")

	require.NoError(t, WriteSourcesCSV(path, res.Sources))

	loaded, err := ReadSourcesCSV(path)
	require.NoError(t, err)
	assert.Equal(t, res.Sources, loaded)
}

func TestSourcesCSVRejectsBadKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.csv")
	data := "index,kind,x,y,z,sigma,strength\n0,sink,1,2,3,1,1\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	_, err := ReadSourcesCSV(path)
	assert.ErrorIs(t, err, field.ErrInvalidKind)
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "out"))
	res := testSample(t)

	meta, err := st.Save(res, SaveOptions{Basename: "sample", HDF5: true, NPZ: true})
	require.NoError(t, err)
	assert.Equal(t, "sample", meta.ID)
	assert.Equal(t, "sample.hdf5", meta.Files.HDF5)
	assert.Equal(t, "sample.npz", meta.Files.NPZ)
	assert.Equal(t, 2, meta.NumSources)
	assert.Equal(t, "radial", meta.Kernel)

	for _, name := range []string{"sample.hdf5", "sample.npz", "sample.json", "sample.sources.csv"} {
		_, err := os.Stat(filepath.Join(st.Dir(), name))
		assert.NoError(t, err, name)
	}

	loaded, err := st.Load("sample")
	require.NoError(t, err)
	assert.Equal(t, res.Config, loaded.Config)
	assert.Equal(t, 6, loaded.N)
	assert.InDelta(t, 0, loaded.Stats["d"].Mean, 1e-6)

	sources, err := st.LoadSources("sample")
	require.NoError(t, err)
	assert.Equal(t, res.Sources, sources)

	fields, err := st.LoadFields("sample")
	require.NoError(t, err)
	assert.True(t, fields.Equal(res.Fields))
}

func TestStoreSaveNPZOnly(t *testing.T) {
	st := New(t.TempDir())
	res := testSample(t)

	meta, err := st.Save(res, SaveOptions{Basename: "npz-only", NPZ: true})
	require.NoError(t, err)
	assert.Empty(t, meta.Files.HDF5)

	fields, err := st.LoadFields("npz-only")
	require.NoError(t, err)
	assert.True(t, fields.Equal(res.Fields))
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))

	samples, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, samples)

	res := testSample(t)
	_, err = st.Save(res, SaveOptions{Basename: "b", HDF5: true})
	require.NoError(t, err)
	_, err = st.Save(res, SaveOptions{Basename: "a", HDF5: true})
	require.NoError(t, err)

	samples, err = st.List()
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, "a", samples[0].ID)
	assert.Equal(t, "b", samples[1].ID)
}

func TestStoreSaveRequiresBasename(t *testing.T) {
	_, err := New(t.TempDir()).Save(testSample(t), SaveOptions{HDF5: true})
	assert.Error(t, err)
}

func TestConvertNPZ(t *testing.T) {
	dir := t.TempDir()
	res := testSample(t)
	in := filepath.Join(dir, "sample.npz")
	out := filepath.Join(dir, "sample.hdf5")

	require.NoError(t, WriteNPZ(in, res.Fields, nil))
	require.NoError(t, Convert(in, out))

	loaded, err := ReadHDF5(out)
	require.NoError(t, err)
	assert.True(t, loaded.Equal(res.Fields))
}

func TestConvertErrors(t *testing.T) {
	dir := t.TempDir()

	assert.Error(t, Convert(filepath.Join(dir, "missing.npz"), filepath.Join(dir, "out.hdf5")))

	txt := filepath.Join(dir, "fields.txt")
	require.NoError(t, os.WriteFile(txt, []byte("nope"), 0644))
	assert.ErrorIs(t, Convert(txt, filepath.Join(dir, "out.hdf5")), ErrUnknownFormat)

	assert.ErrorIs(t, readEmptyDir(t, dir), ErrMissingDataset)
}

func readEmptyDir(t *testing.T, dir string) error {
	t.Helper()
	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.Mkdir(empty, 0755))
	_, err := ReadArchive(empty)
	return err
}
