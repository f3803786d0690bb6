package cmd

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Seed file kinds, from lowest to highest entropy.
const (
	kindFlat   = "flat"   // one repeated byte, entropy 0
	kindText   = "text"   // UUID lines, entropy around 4
	kindRandom = "random" // crypto/rand bytes, entropy close to 8
)

var seedKinds = []string{kindFlat, kindText, kindRandom}

// NewSeedCmd creates and returns the seed subcommand for the entropy CLI.
// It generates files with known entropy profiles in a randomized tree.
func NewSeedCmd() *cobra.Command {
	var (
		outputPath string
		fileCount  int
		fileSize   int
		maxDepth   int
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate sample files with known entropy profiles",
		Long: `Generate sample files for trying out and testing entropy scans.

Files are spread over a randomly nested directory tree and cycle through three
kinds: flat (a single repeated byte), text (UUID lines) and random
(cryptographically random bytes). The kind is part of each file name.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var progress io.Writer = io.Discard
			if verbose {
				progress = cmd.OutOrStdout()
			}
			return runSeed(osfs.Default, outputPath, fileCount, fileSize, maxDepth, progress)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to output directory (required)")
	cmd.Flags().IntVarP(&fileCount, "count", "c", 30, "Number of files to generate")
	cmd.Flags().IntVarP(&fileSize, "size", "s", 4096, "Size of each file in bytes")
	cmd.Flags().IntVarP(&maxDepth, "depth", "d", 3, "Maximum directory nesting below the output directory")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cmd.MarkFlagRequired("output")

	return cmd
}

func runSeed(fsys billy.Filesystem, outputPath string, fileCount, fileSize, maxDepth int, progress io.Writer) error {
	if fileCount < 0 || fileSize < 0 || maxDepth < 0 {
		return fmt.Errorf("count, size and depth must not be negative")
	}
	if err := fsys.MkdirAll(outputPath, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	fmt.Fprintf(progress, "Generating %d files of %d bytes in %s\n", fileCount, fileSize, outputPath)

	dirs := make(map[string]int)
	for i := range fileCount {
		dir, err := randomDir(fsys, outputPath, maxDepth)
		if err != nil {
			return err
		}

		kind := seedKinds[i%len(seedKinds)]
		content, err := seedContent(kind, fileSize)
		if err != nil {
			return err
		}

		path := fsys.Join(dir, fmt.Sprintf("%s-%s.bin", kind, uuid.NewString()[:8]))
		if err := util.WriteFile(fsys, path, content, 0o644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", path, err)
		}
		dirs[dir]++

		if (i+1)%100 == 0 {
			fmt.Fprintf(progress, "Created %d/%d files...\n", i+1, fileCount)
		}
	}

	fmt.Fprintf(progress, "Successfully created %d files across %d directories\n", fileCount, len(dirs))
	return nil
}

// randomDir picks and creates a directory between 0 and maxDepth levels
// below root.
func randomDir(fsys billy.Filesystem, root string, maxDepth int) (string, error) {
	depth, err := randInt(maxDepth + 1)
	if err != nil {
		return "", err
	}

	dir := root
	for range depth {
		n, err := randInt(4)
		if err != nil {
			return "", err
		}
		dir = fsys.Join(dir, fmt.Sprintf("d%d", n))
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return dir, nil
}

func seedContent(kind string, size int) ([]byte, error) {
	switch kind {
	case kindFlat:
		return bytes.Repeat([]byte{'A'}, size), nil
	case kindText:
		var b strings.Builder
		for b.Len() < size {
			b.WriteString(uuid.NewString())
			b.WriteByte('\n')
		}
		return []byte(b.String()[:size]), nil
	case kindRandom:
		content := make([]byte, size)
		if _, err := rand.Read(content); err != nil {
			return nil, fmt.Errorf("reading random bytes: %w", err)
		}
		return content, nil
	default:
		return nil, fmt.Errorf("unknown seed kind %q", kind)
	}
}

func randInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
