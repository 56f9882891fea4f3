package app

import (
	"fmt"
	"strings"

	"github.com/StutiiiG/readai/internal/model"
)

// ExtractedFile pairs a session file's display name with its extracted text.
type ExtractedFile struct {
	Filename string
	Text     string
}

// BuildDocumentContext concatenates one labeled block per file with
// non-empty text, assigning compact 1-based ordinals in the given order.
// Files with empty text get no block and no ordinal, so the returned source
// map has no gaps. An empty result signals ungrounded generation.
func BuildDocumentContext(files []ExtractedFile) (string, map[int]string) {
	sourceMap := make(map[int]string)

	var context strings.Builder
	ordinal := 0
	for _, f := range files {
		if f.Text == "" {
			continue
		}
		ordinal++
		sourceMap[ordinal] = f.Filename
		fmt.Fprintf(&context, "\n\n=== Source [%d]: %s ===\n%s", ordinal, f.Filename, f.Text)
	}
	return context.String(), sourceMap
}

// BuildHistoryTranscript renders at most the max newest messages, oldest
// first. Callers must pass history from strictly before the current turn.
func BuildHistoryTranscript(history []model.Message, max int) string {
	if max > 0 && len(history) > max {
		history = history[len(history)-max:]
	}

	var transcript strings.Builder
	for _, msg := range history {
		label := "User"
		if msg.Role == model.RoleAssistant {
			label = "Assistant"
		}
		fmt.Fprintf(&transcript, "\n%s: %s", label, msg.Content)
	}
	return transcript.String()
}
