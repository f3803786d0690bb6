// Package cmd provides the command-line interface implementation for entropy.
//
// This package contains all the subcommand implementations for the entropy CLI.
// It uses Cobra for command structure, Viper for configuration and is run
// through Fang by the main package.
//
// The package is organized into the following commands:
//   - root: persistent flags, configuration binding and command groups
//   - file: entropy of a single file
//   - scan: entropy of every file below a path
//   - seed: sample file generation
//   - version: build information
//
// Each command has its own constructor returning a *cobra.Command. Results go
// to the command's output stream and logs to its error stream, so commands can
// be exercised in tests with SetOut and SetErr.
package cmd
