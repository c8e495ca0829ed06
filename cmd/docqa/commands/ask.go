// ABOUTME: CLI command for one-shot grounded question answering
// ABOUTME: Prints the cited answer or the refusal, with optional retrieval trace
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/docqa/internal/models"
)

var (
	askTopK int
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask one question about the ingested document",
		Long: `Ask one question about the ingested document.

The question is embedded and matched against the index; the best
passages ground the generated answer, which cites the pages it drew
from. When the document does not contain the answer, the reply is the
refusal line instead of a guess.

Examples:
  docqa ask "How did revenue develop in H1?"
  docqa ask --top-k 8 "What drove the margin change?"
  docqa ask --format json "Who are the largest customers?"`,
		Args: cobra.ExactArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().IntVar(&askTopK, "top-k", 0, "Passages to retrieve (default from config)")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if askTopK != 0 {
		if err := validatePositiveInt(askTopK, "top-k"); err != nil {
			return err
		}
		cfg.TopK = askTopK
	}

	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	turn, err := p.session.Ask(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, models.ErrIndexNotReady) {
			return fmt.Errorf("no document indexed yet; run 'docqa ingest <document>' first")
		}
		return fmt.Errorf("asking: %w", err)
	}

	answer := p.session.LastAnswer()

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", turn.Text)

	if !quiet && len(turn.Citations) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "\nCitations: %s\n", formatCitations(turn.Citations))
	}

	if verbose {
		printRetrievalTrace(cmd, answer.Retrieved)
	}

	return nil
}

// printRetrievalTrace renders the ranked evidence as a table
func printRetrievalTrace(cmd *cobra.Command, retrieved []models.RetrievedRef) {
	if len(retrieved) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "\nNo passages above the score threshold\n")
		return
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n")
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "RANK\tSCORE\tPAGE\tCHUNK\n")
	fmt.Fprintf(w, "----\t-----\t----\t-----\n")
	for _, ref := range retrieved {
		fmt.Fprintf(w, "%d\t%.3f\t%d\t%s\n", ref.Rank, ref.Score, ref.Page, ref.ChunkID)
	}
	_ = w.Flush()
}
