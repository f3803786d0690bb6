package entropy

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func writeFile(t *testing.T, fsys billy.Filesystem, path string, data []byte) {
	t.Helper()
	require.NoError(t, util.WriteFile(fsys, path, data, 0o644))
}

// binary returns the entropy of a two-symbol distribution, summed in the same
// order Shannon visits byte values.
func binary(p, q float64) float64 {
	var h float64
	h -= p * math.Log2(p)
	h -= q * math.Log2(q)
	return h
}

func TestCalculate(t *testing.T) {
	fsys := memfs.New()

	uniform := make([]byte, 512)
	for i := range uniform {
		uniform[i] = byte(i % 256)
	}

	writeFile(t, fsys, "/empty", nil)
	writeFile(t, fsys, "/repeated", bytes.Repeat([]byte{0x41}, 4096))
	writeFile(t, fsys, "/uniform", uniform)
	writeFile(t, fsys, "/mixed", []byte{0, 0, 0, 0, 1})
	writeFile(t, fsys, "/halves", []byte{0x00, 0xff})

	tests := []struct {
		name string
		path string
		want float64
	}{
		{name: "empty file", path: "/empty", want: 0},
		{name: "single repeated byte", path: "/repeated", want: 0},
		{name: "every byte value equally often", path: "/uniform", want: 8},
		{name: "four zeros and a one", path: "/mixed", want: binary(0.8, 0.2)},
		{name: "two distinct bytes", path: "/halves", want: 1},
	}

	calc := NewCalculator(fsys)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.Calculate(tt.path)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, tolerance)
		})
	}
}

func TestCalculate_KnownValue(t *testing.T) {
	fsys := memfs.New()
	writeFile(t, fsys, "/mixed", []byte{0, 0, 0, 0, 1})

	got, err := NewCalculator(fsys).Calculate("/mixed")
	require.NoError(t, err)
	assert.InDelta(t, 0.7219, got, 1e-4)
}

func TestMeasure_ChunkAccounting(t *testing.T) {
	fsys := memfs.New()
	// Chunks of four: [0 0 1 1] [2 2 2 2] [3]. The final read leaves
	// [3 2 2 2] in the buffer.
	writeFile(t, fsys, "/data", []byte{0, 0, 1, 1, 2, 2, 2, 2, 3})

	tests := []struct {
		name string
		opts []CalculatorOption
		want float64
	}{
		{
			name: "stale tail is recounted",
			opts: []CalculatorOption{WithChunkSize(4)},
			want: 1 + 0 + binary(0.75, 0.25),
		},
		{
			name: "valid bytes only",
			opts: []CalculatorOption{WithChunkSize(4), WithValidBytesOnly()},
			want: 1 + 0 + 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewCalculator(fsys, tt.opts...).Measure("/data")
			require.NoError(t, err)
			assert.InDelta(t, tt.want, res.Entropy, tolerance)
			assert.Equal(t, 3, res.Chunks)
			assert.Equal(t, int64(9), res.Size)
			assert.Equal(t, "/data", res.Path)
		})
	}
}

func TestMeasure_LargerThanOneChunk(t *testing.T) {
	const tail = 10
	fsys := memfs.New()
	data := make([]byte, ChunkSize+tail)
	for i := ChunkSize; i < len(data); i++ {
		data[i] = 1
	}
	writeFile(t, fsys, "/big", data)

	res, err := NewCalculator(fsys).Measure("/big")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Chunks)

	// First chunk is all zeros. The second read returns ten ones and the
	// rest of the buffer still holds zeros from the first chunk.
	ones := float64(tail) / float64(ChunkSize)
	zeros := float64(ChunkSize-tail) / float64(ChunkSize)
	assert.InDelta(t, binary(zeros, ones), res.Entropy, tolerance)

	res, err = NewCalculator(fsys, WithValidBytesOnly()).Measure("/big")
	require.NoError(t, err)
	assert.InDelta(t, 0, res.Entropy, tolerance)
}

func TestMeasure_SumsChunks(t *testing.T) {
	fsys := memfs.New()
	chunk := make([]byte, 256)
	for i := range chunk {
		chunk[i] = byte(i)
	}
	writeFile(t, fsys, "/three", bytes.Repeat(chunk, 3))

	got, err := NewCalculator(fsys, WithChunkSize(256)).Calculate("/three")
	require.NoError(t, err)
	assert.InDelta(t, 24, got, tolerance)
}

func TestCalculate_Errors(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, fsys.MkdirAll("/dir", 0o755))
	writeFile(t, fsys, "/five", []byte("12345"))

	tests := []struct {
		name    string
		path    string
		opts    []CalculatorOption
		wantErr error
	}{
		{name: "directory", path: "/dir", wantErr: ErrNotAFile},
		{name: "missing file", path: "/nope", wantErr: ErrIO},
		{name: "over the size limit", path: "/five", opts: []CalculatorOption{WithMaxFileSize(4)}, wantErr: ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewCalculator(fsys, tt.opts...).Calculate(tt.path)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, got)
		})
	}

	t.Run("at the size limit", func(t *testing.T) {
		_, err := NewCalculator(fsys, WithMaxFileSize(5)).Calculate("/five")
		assert.NoError(t, err)
	})

	t.Run("missing file keeps the os error", func(t *testing.T) {
		_, err := NewCalculator(fsys).Calculate("/nope")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

// openTracker fails the test if Open is ever called.
type openTracker struct {
	billy.Filesystem
	t *testing.T
}

func (o openTracker) Open(name string) (billy.File, error) {
	o.t.Errorf("unexpected Open(%q)", name)
	return o.Filesystem.Open(name)
}

func TestCalculate_TooLargeIsNotRead(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "sparse.bin")

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(MaxFileSize+1))
	require.NoError(t, f.Close())

	calc := NewCalculator(openTracker{Filesystem: osfs.Default, t: t})
	_, err = calc.Calculate(path)
	require.ErrorIs(t, err, ErrFileTooLarge)
	assert.False(t, errors.Is(err, ErrIO))
}

var errDisk = errors.New("disk went away")

// failingReads hands out files whose Read fails from the failAt-th call on.
type failingReads struct {
	billy.Filesystem
	failAt int
}

func (f failingReads) Open(name string) (billy.File, error) {
	file, err := f.Filesystem.Open(name)
	if err != nil {
		return nil, err
	}
	return &failingFile{File: file, failAt: f.failAt}, nil
}

type failingFile struct {
	billy.File
	failAt int
	reads  int
}

func (f *failingFile) Read(p []byte) (int, error) {
	f.reads++
	if f.reads >= f.failAt {
		return 0, errDisk
	}
	return f.File.Read(p)
}

func TestMeasure_ReadFailure(t *testing.T) {
	fsys := memfs.New()
	writeFile(t, fsys, "/nine.bin", []byte{0, 0, 1, 1, 2, 2, 2, 2, 3})

	tests := []struct {
		name   string
		failAt int
	}{
		{"first read", 1},
		{"second chunk", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := NewCalculator(failingReads{Filesystem: fsys, failAt: tt.failAt}, WithChunkSize(4))

			res, err := calc.Measure("/nine.bin")
			require.ErrorIs(t, err, ErrIO)
			assert.ErrorIs(t, err, errDisk)
			assert.Equal(t, Result{}, res)

			v, err := calc.Calculate("/nine.bin")
			require.ErrorIs(t, err, ErrIO)
			assert.Zero(t, v)
		})
	}
}

func TestCalculate_OSFilesystem(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "mixed.bin")
	require.NoError(t, os.WriteFile(path, []byte{0, 0, 0, 0, 1}, 0o644))

	got, err := NewCalculator(osfs.Default).Calculate(path)
	require.NoError(t, err)
	assert.InDelta(t, binary(0.8, 0.2), got, tolerance)

	_, err = NewCalculator(osfs.Default).Calculate(tmpDir)
	assert.ErrorIs(t, err, ErrNotAFile)
}

func TestShannon(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want float64
	}{
		{name: "empty", data: nil, want: 0},
		{name: "one byte", data: []byte{7}, want: 0},
		{name: "four symbols", data: []byte{1, 2, 3, 4}, want: 2},
		{name: "skewed", data: []byte{9, 9, 9, 1}, want: binary(0.25, 0.75)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Shannon(tt.data), tolerance)
		})
	}
}
