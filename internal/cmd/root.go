package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dendrascience/treeport/pipeline"
	"github.com/dendrascience/treeport/version"
)

// NewRootCmd creates and returns the root cobra command for the treeport CLI.
// It sets up all subcommands and basic configuration.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "treeport",
		Short: "treeport - carry a directory tree as a portable text blob",
		Long: `treeport converts a directory tree into a single text blob and back.

The tree is packed into one archive, encoded with a fixed 64-symbol text
alphabet, and published atomically: the destination file either keeps its
previous content or holds the complete new content, never anything in
between. Text output survives channels that reject binary payloads and
tolerates reformatting (inserted line breaks and whitespace) on the way
back in.

Use subcommands to perform different operations:
  - encode: pack a directory and write it as a text file
  - decode: rebuild the archive, or the whole tree, from a text file`,
		Version:       version.GetFullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewEncodeCmd())
	rootCmd.AddCommand(NewDecodeCmd())

	return rootCmd
}

// checkArgs rejects blank and malformed positional paths before any I/O
// happens. Blank arguments are a usage error; a NUL byte can never be a
// real path on any supported platform.
func checkArgs(args []string) *pipeline.Failure {
	for _, arg := range args {
		if strings.TrimSpace(arg) == "" {
			return &pipeline.Failure{
				Kind:  pipeline.KindUsage,
				Stage: pipeline.StageInit,
				Err:   errors.New("blank path argument"),
			}
		}
		if strings.ContainsRune(arg, 0) {
			return &pipeline.Failure{
				Kind:  pipeline.KindBadPath,
				Stage: pipeline.StageInit,
				Path:  strings.ReplaceAll(arg, "\x00", ""),
				Err:   errors.New("path contains a NUL byte"),
			}
		}
	}
	return nil
}
