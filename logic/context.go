package logic

import (
	"github.com/ozayys/ChatBotV1/models"
	"github.com/ozayys/ChatBotV1/pkg"
)

const (
	// contextWindowTurns is how many persisted turns feed the context.
	contextWindowTurns = 5
	// maxContextEntries caps the expanded (user, assistant) entries.
	maxContextEntries = 10
)

// BuildChatContext expands the most recent persisted turns of a conversation
// into ordered (user, assistant) pairs for a context-aware backend. Input
// must be ordered oldest first; the result keeps that order and is truncated
// to the newest maxContextEntries entries.
func BuildChatContext(turns []models.Message) []pkg.Turn {
	if len(turns) > contextWindowTurns {
		turns = turns[len(turns)-contextWindowTurns:]
	}

	entries := make([]pkg.Turn, 0, len(turns)*2)
	for _, turn := range turns {
		entries = append(entries, pkg.Turn{Role: "user", Content: turn.Message})
		entries = append(entries, pkg.Turn{Role: "assistant", Content: turn.Response})
	}

	if len(entries) > maxContextEntries {
		entries = entries[len(entries)-maxContextEntries:]
	}
	return entries
}
