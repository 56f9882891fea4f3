package app

import (
	"regexp"
	"strconv"

	"github.com/StutiiiG/readai/internal/model"
)

var citationMarkerPattern = regexp.MustCompile(`\[(\d+)\]`)

// ExtractCitations resolves bracketed numeric markers in generated text
// against the per-turn source map. Ordering follows first appearance in the
// text; a number is emitted once, and markers outside the source map are
// dropped (the model cited a source that was never in the prompt).
func ExtractCitations(text string, sourceMap map[int]string) []model.Citation {
	matches := citationMarkerPattern.FindAllStringSubmatch(text, -1)

	citations := make([]model.Citation, 0, len(matches))
	seen := make(map[int]bool)
	for _, match := range matches {
		number, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		source, ok := sourceMap[number]
		if !ok || seen[number] {
			continue
		}
		seen[number] = true
		citations = append(citations, model.Citation{
			Number: number,
			Text:   "Reference from " + source,
			Source: source,
		})
	}
	return citations
}
