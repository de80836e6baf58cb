package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dendrascience/treeport/pipeline"
)

// NewDecodeCmd creates and returns the decode subcommand for the treeport CLI.
// It reconstructs the archive blob, or the whole tree, from a text file.
func NewDecodeCmd() *cobra.Command {
	var (
		verbose bool
		extract bool
	)

	cmd := &cobra.Command{
		Use:   "decode SOURCE_FILE DEST",
		Short: "Rebuild the archive, or the whole tree, from a text file",
		Long: `Decode the text in SOURCE_FILE back into the archive it encodes and
publish it atomically at DEST. With --extract, DEST is treated as a
directory and the tree inside the archive is reconstructed there
instead.

Whitespace and line breaks inserted into the text in transit are
ignored. Any other alteration is detected and reported as corrupt
input; the command never silently produces wrong bytes. All temporary
files are removed no matter how the command ends.`,
		Example: `  # Recover the archive:
  treeport decode project.txt project.zip

  # Recover the tree directly:
  treeport decode --extract project.txt ./project`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f := checkArgs(args); f != nil {
				return f
			}
			if f := pipeline.Decode(args[0], args[1], extract, pipeline.Options{Verbose: verbose}); f != nil {
				return f
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&extract, "extract", false, "Unpack the decoded archive into DEST instead of writing the archive file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log stage transitions and retries")

	return cmd
}
