package cmd

import (
	"github.com/dendrascience/entropy-scan/entropy"
	"github.com/dendrascience/entropy-scan/internal/report"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
)

// NewFileCmd creates and returns the file subcommand for the entropy CLI.
// It measures exactly one file.
func NewFileCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "file PATH",
		Short: "Compute the entropy of a single file",
		Long: `Compute the Shannon entropy of a single file.

Prints "Scanning PATH" before reading and "Entropy of PATH: VALUE" once the
whole file has been read. Directories and files larger than 2 GiB are rejected.`,
		Args: requirePath,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(cmd, s, args[0])
		},
	}
}

func runFile(cmd *cobra.Command, s *settings, path string) error {
	cfg, logger, err := s.load(cmd)
	if err != nil {
		return err
	}

	rep, err := report.New(cfg.Format, cmd.OutOrStdout(), report.Options{
		Style:     report.StyleFile,
		Color:     cfg.Color,
		Highlight: cfg.Highlight,
	})
	if err != nil {
		return err
	}

	fsys := osfs.Default
	scanner := entropy.NewScanner(
		entropy.NewCollector(fsys),
		entropy.NewCalculator(fsys, calculatorOptions(cfg)...),
		logger,
	)

	if err := rep.Begin(path); err != nil {
		return err
	}
	return scanner.ScanFile(path, rep.Emit)
}
