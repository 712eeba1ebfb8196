// Package cli provides the docqa command line.
package cli

import (
	"github.com/spf13/cobra"
)

// version is set at build time
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Session-scoped document question answering",
	Long: `docqa answers questions about uploaded documents.

Clients upload files to a session, build embeddings for them and then
query the session. Answers are grounded in the retrieved document
chunks and the recent conversation history.`,
	SilenceUsage: true,
}

// SetVersion sets the version reported by the CLI and the server
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Version returns the configured version
func Version() string {
	return version
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
