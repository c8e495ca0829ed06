// ABOUTME: Turn represents a single entry in a conversation transcript
// ABOUTME: User turns carry the question, assistant turns carry the cited answer
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one transcript entry. The transcript is append-only: turns are
// never edited or removed once stored.
type Turn struct {
	TurnID    string     `json:"turn_id"`
	Role      Role       `json:"role"`
	Text      string     `json:"text"`
	Citations []Citation `json:"citations,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewUserTurn creates a user turn with validation
func NewUserTurn(text string) (*Turn, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("user turn text cannot be empty")
	}
	return &Turn{
		TurnID:    generateTurnID(),
		Role:      RoleUser,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}, nil
}

// NewAssistantTurn creates an assistant turn carrying validated citations
func NewAssistantTurn(text string, citations []Citation) *Turn {
	return &Turn{
		TurnID:    generateTurnID(),
		Role:      RoleAssistant,
		Text:      text,
		Citations: citations,
		Timestamp: time.Now().UTC(),
	}
}

// generateTurnID generates a unique turn identifier
func generateTurnID() string {
	return fmt.Sprintf("turn_%s_%s", time.Now().Format("20060102_150405"), uuid.New().String()[:8])
}
