// ABOUTME: CLI command reporting the state of the local index
// ABOUTME: Shows build parameters and counts without touching the OpenAI API
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show index status",
		Long: `Show the state of the local document index.

Reports whether an index exists, its size, and the parameters it was
built with. Works without an OpenAI API key.

Examples:
  docqa status
  docqa status --format json`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}

	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, manager, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	meta, err := manager.Status()
	if err != nil {
		return fmt.Errorf("reading index status: %w", err)
	}

	if outputFormat == "json" {
		payload := map[string]interface{}{"indexed": meta != nil}
		if meta != nil {
			payload["meta"] = meta
			payload["path"] = cfg.DBPath()
		}
		jsonData, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if meta == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "No document indexed yet. Run 'docqa ingest <document>' first.\n")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Pages:\t%d\n", meta.PageCount)
	fmt.Fprintf(w, "Chunks:\t%d\n", meta.ChunkCount)
	fmt.Fprintf(w, "Chunk size:\t%d runes (overlap %d)\n", meta.ChunkSize, meta.ChunkOverlap)
	fmt.Fprintf(w, "Embedding model:\t%s\n", meta.EmbeddingModel)
	fmt.Fprintf(w, "Built:\t%s\n", formatTime(meta.BuiltAt))
	fmt.Fprintf(w, "Fingerprint:\t%s\n", truncate(meta.Fingerprint, 19))
	if verbose {
		fmt.Fprintf(w, "Index path:\t%s\n", cfg.DBPath())

		chunks, err := store.Chunks().ListAll()
		if err != nil {
			return fmt.Errorf("listing chunks: %w", err)
		}
		// ListAll orders by page then ordinal, so pages come out as runs
		for i := 0; i < len(chunks); {
			page := chunks[i].PageNumber
			j := i
			for j < len(chunks) && chunks[j].PageNumber == page {
				j++
			}
			fmt.Fprintf(w, "  page %d:\t%d chunks\n", page, j-i)
			i = j
		}
	}
	_ = w.Flush()

	return nil
}
