// ABOUTME: CLI command to ingest a document into the local index
// ABOUTME: Chunks, embeds, and stores pages unless the index is already current
package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/docqa/internal/ingest"
)

var (
	ingestReindex bool
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <document>",
		Short: "Ingest a document and build the index",
		Long: `Ingest a document and build the local vector index.

Accepts plain text (pages separated by form feeds) or a JSON page
array. The document is fingerprinted together with the chunking
parameters and the embedding model; if nothing changed since the last
ingest, the stored index is reused and no embedding calls are made.

Examples:
  docqa ingest report.txt
  docqa ingest pages.json
  docqa ingest --reindex report.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().BoolVar(&ingestReindex, "reindex", false, "Rebuild the index even if the fingerprint matches")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pages, err := ingest.LoadPages(args[0])
	if err != nil {
		return fmt.Errorf("loading document: %w", err)
	}

	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	report, err := p.manager.Ensure(cmd.Context(), pages, ingestReindex)
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(map[string]interface{}{
			"document":    args[0],
			"fingerprint": report.Fingerprint,
			"reused":      report.Reused,
			"pages":       report.PageCount,
			"chunks":      report.ChunkCount,
			"duration_ms": report.Duration.Milliseconds(),
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if quiet {
		return nil
	}

	if report.Reused {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Index up to date: %d chunks from %d pages\n",
			report.ChunkCount, report.PageCount)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Indexed %d chunks from %d pages in %v\n",
			report.ChunkCount, report.PageCount, report.Duration.Round(time.Millisecond))
	}

	if verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "Fingerprint: %s\n", report.Fingerprint)
		fmt.Fprintf(cmd.OutOrStdout(), "Index path:  %s\n", cfg.DBPath())
	}

	return nil
}
