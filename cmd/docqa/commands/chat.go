// ABOUTME: Interactive chat REPL over the ingested document
// ABOUTME: Supports follow-up questions plus /debug, /clear, /help, /quit
package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/docqa/internal/models"
	"github.com/harper/docqa/internal/session"
)

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat interactively with the ingested document",
		Long: `Chat interactively with the ingested document.

Each question is answered from retrieved passages with page citations.
Recent conversation turns are passed to the model so follow-up
questions like "and the year before?" work, but retrieval always runs
on the question alone.

REPL commands:
  /debug   show the retrieval trace of the last answer
  /clear   start a fresh conversation
  /help    list commands
  /quit    leave the chat`,
		Args: cobra.NoArgs,
		RunE: runChat,
	}

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	meta, err := p.manager.Status()
	if err != nil {
		return fmt.Errorf("reading index status: %w", err)
	}
	if meta == nil {
		return fmt.Errorf("no document indexed yet; run 'docqa ingest <document>' first")
	}

	out := cmd.OutOrStdout()
	if !quiet {
		fmt.Fprintf(out, "Chatting with the indexed document: %d chunks from %d pages\n", meta.ChunkCount, meta.PageCount)
		fmt.Fprintf(out, "Type /help for commands, /quit to leave.\n\n")
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := runChatCommand(cmd, p.session, line); quit {
				return nil
			}
			continue
		}

		turn, err := p.session.Ask(cmd.Context(), line)
		if err != nil {
			if models.IsGenerationUnavailable(err) {
				fmt.Fprintf(out, "Generation is unavailable right now (%v). Try again in a moment.\n\n", err)
				continue
			}
			fmt.Fprintf(out, "Error: %v\n\n", err)
			continue
		}

		fmt.Fprintf(out, "%s\n", turn.Text)
		if !quiet && len(turn.Citations) > 0 {
			fmt.Fprintf(out, "Citations: %s\n", formatCitations(turn.Citations))
		}
		fmt.Fprintln(out)
	}

	return scanner.Err()
}

// runChatCommand handles slash commands; returns true on /quit
func runChatCommand(cmd *cobra.Command, sess *session.Session, line string) bool {
	out := cmd.OutOrStdout()

	switch strings.ToLower(line) {
	case "/quit", "/exit":
		if !quiet {
			fmt.Fprintln(out, "Bye")
		}
		return true

	case "/help":
		fmt.Fprintln(out, "Commands:")
		fmt.Fprintln(out, "  /debug   show the retrieval trace of the last answer")
		fmt.Fprintln(out, "  /clear   start a fresh conversation")
		fmt.Fprintln(out, "  /help    list commands")
		fmt.Fprintln(out, "  /quit    leave the chat")
		fmt.Fprintln(out)

	case "/clear":
		sess.Clear()
		fmt.Fprintf(out, "Conversation cleared\n\n")

	case "/debug":
		answer := sess.LastAnswer()
		if answer == nil {
			fmt.Fprintf(out, "No answer yet\n\n")
			break
		}
		printRetrievalTrace(cmd, answer.Retrieved)
		fmt.Fprintln(out)

	default:
		fmt.Fprintf(out, "Unknown command %q. Type /help for commands.\n\n", line)
	}

	return false
}
