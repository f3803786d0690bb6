// Package report writes entropy results for people or machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dendrascience/entropy-scan/entropy"
	"github.com/dendrascience/entropy-scan/internal/config"
	"github.com/fatih/color"
)

// Style selects the text layout.
type Style int

const (
	// StyleFile prints "Scanning <path>" followed by "Entropy of <path>: <value>".
	StyleFile Style = iota
	// StyleScan prints one "<quoted path>: <value>" line per file.
	StyleScan
)

// Options configures a Reporter.
type Options struct {
	Style Style
	// Color forces highlighting of values at or above Highlight.
	Color     bool
	Highlight float64
}

// Reporter writes results as they arrive.
type Reporter interface {
	// Begin is called before a single file is measured.
	Begin(path string) error
	Emit(res entropy.Result) error
}

// New returns the Reporter for format.
func New(format string, w io.Writer, opts Options) (Reporter, error) {
	switch format {
	case config.FormatText:
		return newText(w, opts), nil
	case config.FormatJSON:
		return &jsonReporter{enc: json.NewEncoder(w)}, nil
	default:
		return nil, fmt.Errorf("%w %q", config.ErrInvalidFormat, format)
	}
}

// FormatValue renders v with the fewest digits that round-trip.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type textReporter struct {
	w         io.Writer
	style     Style
	highlight float64
	hot       *color.Color
}

func newText(w io.Writer, opts Options) *textReporter {
	r := &textReporter{w: w, style: opts.Style, highlight: opts.Highlight}
	if opts.Color {
		r.hot = color.New(color.FgRed, color.Bold)
		r.hot.EnableColor()
	}
	return r
}

func (r *textReporter) Begin(path string) error {
	if r.style != StyleFile {
		return nil
	}
	_, err := fmt.Fprintf(r.w, "Scanning %s\n", path)
	return err
}

func (r *textReporter) Emit(res entropy.Result) error {
	value := FormatValue(res.Entropy)
	if r.hot != nil && res.Entropy >= r.highlight {
		value = r.hot.Sprint(value)
	}

	var err error
	switch r.style {
	case StyleFile:
		_, err = fmt.Fprintf(r.w, "Entropy of %s: %s\n", res.Path, value)
	default:
		_, err = fmt.Fprintf(r.w, "%q: %s\n", res.Path, value)
	}
	return err
}

// jsonReporter writes one JSON object per line.
type jsonReporter struct {
	enc *json.Encoder
}

func (r *jsonReporter) Begin(string) error { return nil }

func (r *jsonReporter) Emit(res entropy.Result) error {
	return r.enc.Encode(res)
}
