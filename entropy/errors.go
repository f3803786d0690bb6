package entropy

import "errors"

// Sentinel errors for package entropy.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// Target errors
	ErrNotAFile     = errors.New("not a file: path is a directory")
	ErrFileTooLarge = errors.New("file too large")

	// ErrIO is joined with the underlying filesystem error, so both
	// errors.Is(err, ErrIO) and errors.Is(err, fs.ErrNotExist) hold.
	ErrIO = errors.New("i/o error")

	// Invocation errors
	ErrMissingArgument = errors.New("no path provided")
)
