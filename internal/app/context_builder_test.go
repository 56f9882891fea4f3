package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StutiiiG/readai/internal/model"
)

func TestBuildDocumentContextAssignsCompactOrdinals(t *testing.T) {
	files := []ExtractedFile{
		{Filename: "report.pdf", Text: "annual report text"},
		{Filename: "empty.docx", Text: ""},
		{Filename: "notes.txt", Text: "meeting notes"},
	}

	context, sourceMap := BuildDocumentContext(files)

	require.Len(t, sourceMap, 2)
	assert.Equal(t, "report.pdf", sourceMap[1])
	assert.Equal(t, "notes.txt", sourceMap[2])
	_, hasThree := sourceMap[3]
	assert.False(t, hasThree, "skipped file must not reserve an ordinal")

	assert.Contains(t, context, "=== Source [1]: report.pdf ===")
	assert.Contains(t, context, "=== Source [2]: notes.txt ===")
	assert.NotContains(t, context, "empty.docx")
	assert.Contains(t, context, "annual report text")
	assert.Contains(t, context, "meeting notes")
}

func TestBuildDocumentContextEmptyInput(t *testing.T) {
	context, sourceMap := BuildDocumentContext(nil)
	assert.Empty(t, context)
	assert.Empty(t, sourceMap)

	context, sourceMap = BuildDocumentContext([]ExtractedFile{{Filename: "a.txt", Text: ""}})
	assert.Empty(t, context)
	assert.Empty(t, sourceMap)
}

func TestBuildHistoryTranscriptRendersRoles(t *testing.T) {
	history := []model.Message{
		{Role: model.RoleUser, Content: "what is entropy?"},
		{Role: model.RoleAssistant, Content: "a measure of disorder"},
	}

	transcript := BuildHistoryTranscript(history, 10)

	assert.Equal(t, "\nUser: what is entropy?\nAssistant: a measure of disorder", transcript)
}

func TestBuildHistoryTranscriptKeepsNewestWindow(t *testing.T) {
	var history []model.Message
	for i := 0; i < 15; i++ {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		history = append(history, model.Message{Role: role, Content: content(i)})
	}

	transcript := BuildHistoryTranscript(history, 10)

	assert.NotContains(t, transcript, content(4), "older messages fall out of the window")
	assert.Contains(t, transcript, content(5))
	assert.Contains(t, transcript, content(14))
}

func TestBuildHistoryTranscriptEmpty(t *testing.T) {
	assert.Empty(t, BuildHistoryTranscript(nil, 10))
}

func content(i int) string {
	return "message-" + string(rune('a'+i))
}
