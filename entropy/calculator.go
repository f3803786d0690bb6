package entropy

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-git/go-billy/v5"
)

const (
	// MaxFileSize is the largest file, in bytes, the Calculator will read.
	MaxFileSize int64 = 2147483648

	// ChunkSize is the size of the read buffer and therefore of every
	// chunk except possibly the last one.
	ChunkSize = 2560000
)

// Calculator computes the summed per-chunk Shannon entropy of files.
type Calculator struct {
	fs             billy.Filesystem
	maxFileSize    int64
	chunkSize      int
	validBytesOnly bool
}

// CalculatorOption configures a Calculator.
type CalculatorOption func(*Calculator)

// WithValidBytesOnly makes every chunk count only the bytes returned by its
// own read. Without it a short final chunk also counts the stale tail left in
// the buffer by the previous, larger read.
func WithValidBytesOnly() CalculatorOption {
	return func(c *Calculator) {
		c.validBytesOnly = true
	}
}

// WithMaxFileSize overrides MaxFileSize. Values <= 0 are ignored.
func WithMaxFileSize(n int64) CalculatorOption {
	return func(c *Calculator) {
		if n > 0 {
			c.maxFileSize = n
		}
	}
}

// WithChunkSize overrides ChunkSize. Values <= 0 are ignored.
func WithChunkSize(n int) CalculatorOption {
	return func(c *Calculator) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// NewCalculator returns a Calculator reading from fsys.
func NewCalculator(fsys billy.Filesystem, opts ...CalculatorOption) *Calculator {
	c := &Calculator{
		fs:          fsys,
		maxFileSize: MaxFileSize,
		chunkSize:   ChunkSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate returns the entropy of the file at path.
func (c *Calculator) Calculate(path string) (float64, error) {
	res, err := c.Measure(path)
	if err != nil {
		return 0, err
	}
	return res.Entropy, nil
}

// Measure checks that path is a readable file within the size limit, then
// reads it chunk by chunk and returns its entropy along with the file size
// and the number of chunks read.
func (c *Calculator) Measure(path string) (Result, error) {
	info, err := c.fs.Stat(path)
	if err != nil {
		return Result{}, ioError("stat", path, err)
	}
	if info.IsDir() {
		return Result{}, fmt.Errorf("%s: %w", path, ErrNotAFile)
	}
	if info.Size() > c.maxFileSize {
		return Result{}, fmt.Errorf("%s is %d bytes, limit is %d: %w", path, info.Size(), c.maxFileSize, ErrFileTooLarge)
	}

	f, err := c.fs.Open(path)
	if err != nil {
		return Result{}, ioError("open", path, err)
	}
	defer f.Close()

	value, chunks, err := c.sum(f)
	if err != nil {
		return Result{}, ioError("read", path, err)
	}
	return Result{
		Path:    path,
		Entropy: value,
		Size:    info.Size(),
		Chunks:  chunks,
	}, nil
}

// sum reads r to EOF through a single buffer and adds up the entropy of every
// chunk. The buffer keeps a high-water mark: unless validBytesOnly is set, a
// chunk covers buf[:filled] rather than just the n bytes it read.
func (c *Calculator) sum(r io.Reader) (float64, int, error) {
	buf := make([]byte, c.chunkSize)
	var (
		total  float64
		chunks int
		filled int
	)
	for {
		n, err := io.ReadFull(r, buf)
		if errors.Is(err, io.EOF) {
			return total, chunks, nil
		}
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, chunks, err
		}

		filled = max(filled, n)
		window := buf[:filled]
		if c.validBytesOnly {
			window = buf[:n]
		}
		total += Shannon(window)
		chunks++
	}
}

// Shannon returns the Shannon entropy of data in bits per byte.
func Shannon(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}

	var frequency [256]uint64
	for _, b := range data {
		frequency[b]++
	}

	total := float64(len(data))
	var entropy float64
	for _, count := range frequency {
		if count == 0 {
			continue
		}
		p := float64(count) / total
		entropy -= p * math.Log2(p)
	}
	return entropy
}

func ioError(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrIO, op, path, err)
}
