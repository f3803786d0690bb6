// Package main provides the entropy command-line interface.
//
// entropy reports the Shannon entropy of file contents in bits per byte, for a
// single file or for every file in a directory tree. High values hint at
// compressed, encrypted or packed data.
//
// The binary supports the following subcommands:
//   - file: Entropy of one file
//   - scan: Entropy of a file or of every file below a directory
//   - seed: Generate sample files with known entropy profiles
//   - version: Print build information
package main
