// Package cmd provides the command-line interface implementation for treeport.
//
// This package contains all the subcommand implementations for the treeport
// CLI tool. It uses the Cobra library for command structure and Fang for
// beautiful styling.
//
// The package is organized into the following commands:
//   - root: Main command coordinator and entry point
//   - encode: Pack a directory tree and publish it as a text blob
//   - decode: Reconstruct the archive (or the tree) from a text blob
//
// Each command is implemented as a separate file with its own constructor
// function that returns a *cobra.Command. Commands validate their positional
// arguments, then hand off to the pipeline package, which returns a tagged
// failure that the main package maps to a stable exit code.
package cmd
