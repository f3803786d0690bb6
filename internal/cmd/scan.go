package cmd

import (
	"github.com/dendrascience/entropy-scan/entropy"
	"github.com/dendrascience/entropy-scan/internal/config"
	"github.com/dendrascience/entropy-scan/internal/report"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
)

// NewScanCmd creates and returns the scan subcommand for the entropy CLI.
// It measures a file, or every file in a directory tree.
func NewScanCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan PATH",
		Short: "Compute the entropy of every file below a path",
		Long: `Compute the Shannon entropy of a file or of every file in a directory tree.

The full list of files is collected first, then each file is measured and
printed as "PATH": VALUE. Symlinks and other special entries found while
walking are treated as files. The first file that cannot be measured stops
the whole scan.`,
		Args: requirePath,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, s, args[0])
		},
	}

	cmd.Flags().Bool("gitignore", false, "Skip entries matched by a .gitignore at the root directory")
	s.bind(cmd, config.KeyGitIgnore, "gitignore")

	return cmd
}

func runScan(cmd *cobra.Command, s *settings, root string) error {
	cfg, logger, err := s.load(cmd)
	if err != nil {
		return err
	}

	rep, err := report.New(cfg.Format, cmd.OutOrStdout(), report.Options{
		Style:     report.StyleScan,
		Color:     cfg.Color,
		Highlight: cfg.Highlight,
	})
	if err != nil {
		return err
	}

	var collectorOpts []entropy.CollectorOption
	if cfg.GitIgnore {
		collectorOpts = append(collectorOpts, entropy.WithGitIgnore())
	}

	fsys := osfs.Default
	scanner := entropy.NewScanner(
		entropy.NewCollector(fsys, collectorOpts...),
		entropy.NewCalculator(fsys, calculatorOptions(cfg)...),
		logger,
	)
	return scanner.Scan(cmd.Context(), root, rep.Emit)
}
