package cmd

import (
	"fmt"

	"github.com/dendrascience/entropy-scan/entropy"
	"github.com/dendrascience/entropy-scan/internal/config"
	"github.com/dendrascience/entropy-scan/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// settings is shared by every subcommand of one root command.
type settings struct {
	v       *viper.Viper
	cfgFile string
}

// NewRootCmd creates and returns the root cobra command for the entropy CLI.
// It sets up all subcommands, command groups and the persistent flags that
// feed the configuration.
func NewRootCmd() *cobra.Command {
	s := &settings{v: config.New()}

	rootCmd := &cobra.Command{
		Use:   "entropy",
		Short: "entropy - Shannon entropy of files and directory trees",
		Long: `entropy reports the Shannon entropy of file contents in bits per byte.

High values hint at compressed, encrypted or packed data. Files are read in
chunks of 2,560,000 bytes and the entropies of the chunks are summed, so a
file larger than one chunk can report more than 8.

Use subcommands to perform different operations:
  - file: Entropy of a single file
  - scan: Entropy of a file or of every file below a directory
  - seed: Generate sample files with known entropy profiles`,
		Version:       version.GetFullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&s.cfgFile, "config", "", "config file (default is $HOME/.config/entropy/config.yaml)")
	flags.String("log-level", config.DefaultLogLevel, "Log level: trace, debug, info, warn, error")
	flags.String("format", config.DefaultFormat, "Output format: text or json")
	flags.Bool("color", false, "Highlight values at or above --highlight")
	flags.Float64("highlight", config.DefaultHighlight, "Threshold used by --color")
	flags.Bool("valid-bytes-only", false, "Count only the bytes of each read, not the stale buffer tail")
	s.bind(rootCmd, config.KeyLogLevel, "log-level")
	s.bind(rootCmd, config.KeyFormat, "format")
	s.bind(rootCmd, config.KeyColor, "color")
	s.bind(rootCmd, config.KeyHighlight, "highlight")
	s.bind(rootCmd, config.KeyValidBytesOnly, "valid-bytes-only")

	groupAnalysis := "analysis"
	groupUtilities := "utilities"

	rootCmd.AddGroup(&cobra.Group{
		ID:    groupAnalysis,
		Title: "Entropy Analysis",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	fileCmd := NewFileCmd(s)
	scanCmd := NewScanCmd(s)
	seedCmd := NewSeedCmd()
	versionCmd := NewVersionCmd()

	fileCmd.GroupID = groupAnalysis
	scanCmd.GroupID = groupAnalysis
	seedCmd.GroupID = groupUtilities
	versionCmd.GroupID = groupUtilities

	rootCmd.AddCommand(fileCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

// bind ties a flag of cmd (persistent or local) to a config key. It panics
// when the flag does not exist, since commands are wired at build time.
func (s *settings) bind(cmd *cobra.Command, key, flag string) {
	f := cmd.PersistentFlags().Lookup(flag)
	if f == nil {
		f = cmd.Flags().Lookup(flag)
	}
	if err := s.v.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("binding flag %q to %q: %v", flag, key, err))
	}
}

// load resolves the configuration and builds a logger writing to the
// command's error stream.
func (s *settings) load(cmd *cobra.Command) (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(s.v, s.cfgFile)
	if err != nil {
		return config.Config{}, nil, err
	}

	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetLevel(cfg.Level())
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return cfg, logger, nil
}

// calculatorOptions maps configuration onto calculator behaviour.
func calculatorOptions(cfg config.Config) []entropy.CalculatorOption {
	var opts []entropy.CalculatorOption
	if cfg.ValidBytesOnly {
		opts = append(opts, entropy.WithValidBytesOnly())
	}
	return opts
}

// requirePath rejects a missing PATH argument before anything touches the
// filesystem.
func requirePath(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return entropy.ErrMissingArgument
	}
	return cobra.MaximumNArgs(1)(cmd, args)
}
