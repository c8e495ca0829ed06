// ABOUTME: Root CLI command with global flags and subcommand wiring
// ABOUTME: Defines verbose/quiet/format persistent flags shared by all commands
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
██████╗  ██████╗  ██████╗ ██████╗  █████╗
██╔══██╗██╔═══██╗██╔════╝██╔═══██╗██╔══██╗
██║  ██║██║   ██║██║     ██║   ██║███████║
██║  ██║██║   ██║██║     ██║▄▄ ██║██╔══██║
██████╔╝╚██████╔╝╚██████╗╚██████╔╝██║  ██║
╚═════╝  ╚═════╝  ╚═════╝ ╚══▀▀═╝ ╚═╝  ╚═╝`

// NewRootCmd creates the root command with all subcommands
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docqa",
		Short: "Ask questions about a document, with page citations",
		Long: banner + `

DocQA answers questions about a single document. The document is
chunked, embedded, and indexed locally; every answer is grounded in
retrieved passages and cites the pages it came from. Questions the
document cannot answer are refused rather than guessed.

Start by ingesting a document, then ask away:

  docqa ingest report.txt
  docqa ask "How did revenue develop?"
  docqa chat`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, json")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Subcommands
	rootCmd.AddCommand(NewIngestCmd())
	rootCmd.AddCommand(NewAskCmd())
	rootCmd.AddCommand(NewChatCmd())
	rootCmd.AddCommand(NewStatusCmd())
	rootCmd.AddCommand(NewMCPCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
