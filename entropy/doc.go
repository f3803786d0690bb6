// Package entropy computes the Shannon entropy of file contents.
//
// The package has two pieces of real logic and a small amount of glue:
//
// Path Collection:
//   - Collector expands a root path into the list of files to scan
//   - A file root yields itself; a directory yields every non-directory descendant
//   - Traversal uses an explicit stack and never follows symlinks while listing
//
// Entropy Calculation:
//   - Calculator reads a file in chunks of ChunkSize bytes through one reused buffer
//   - Each chunk's byte distribution gives -Σ p·log2(p) bits per byte
//   - The reported value is the sum of the per-chunk values, not a whole-file entropy,
//     so it only stays within [0, 8] for files no larger than one chunk
//
// Scanning:
//   - Scanner runs collection then calculation, emitting one Result per file
//   - The first error aborts the whole batch
//
// All filesystem access goes through a billy.Filesystem, so the native filesystem
// and in-memory filesystems are interchangeable.
package entropy
