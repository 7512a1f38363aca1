// Package main provides the pdfrename CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool

	dryRun     bool
	verbose    bool
	mailtoFlag string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pdfrename [folder]",
	Short: "Rename PDFs by journal, first author, year and title",
	Long: `pdfrename renames every PDF in a folder (the current directory by default)
to {journal}_{author}_{year}_{title}.pdf.

For each file it reads the first pages, looks for a DOI and resolves it
through Crossref, falling back to doi.org content negotiation. Files without
a resolvable DOI get a best-effort title and author guessed from the text.
Existing files are never overwritten.

Each file's result is printed as one JSON object per line by default.
Use --human for readable status lines.

Examples:
  pdfrename
  pdfrename ~/papers --dry-run --human
  pdfrename --mailto me@example.org`,
	Args:          cobra.MaximumNArgs(1),
	RunE:          runRename,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env file if present (for PDFRENAME_MAILTO)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report planned renames without changing any file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every lookup step to stderr")
	rootCmd.Flags().StringVar(&mailtoFlag, "mailto", "", "Contact address for the Crossref polite pool")
	rootCmd.Version = Version
}
