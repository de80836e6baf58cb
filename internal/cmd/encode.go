package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dendrascience/treeport/pipeline"
)

// NewEncodeCmd creates and returns the encode subcommand for the treeport CLI.
// It packs a directory tree and publishes it as a text blob.
func NewEncodeCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "encode SOURCE_DIR DEST_FILE",
		Short: "Pack a directory tree and write it as a text file",
		Long: `Pack SOURCE_DIR into a single archive, encode the archive as text,
and write it to DEST_FILE.

The output is written next to DEST_FILE under a temporary name and moved
into place in one step, so DEST_FILE is never observed half-written. If
another process holds DEST_FILE exclusively, the command fails before
doing any work. All temporary files are removed no matter how the
command ends.`,
		Example: `  # Carry a project directory through a text-only channel:
  treeport encode ./project project.txt`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f := checkArgs(args); f != nil {
				return f
			}
			if f := pipeline.Encode(args[0], args[1], pipeline.Options{Verbose: verbose}); f != nil {
				return f
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log stage transitions and retries")

	return cmd
}
