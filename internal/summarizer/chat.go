package summarizer

import (
	"sort"
	"strings"
	"unicode"
)

const (
	// NoContentAnswer is returned when the document has no usable text.
	NoContentAnswer = "I don't have any content to answer questions about."
	// NoMatchAnswer is returned when no sentence matches the query.
	NoMatchAnswer = "I couldn't find specific information about that in the document. Try rephrasing your question or asking about different aspects of the document."
)

// minQueryWordLen drops stop-word sized tokens ("the", "is", "a") from
// the query before matching.
const minQueryWordLen = 4

// Answer runs a naive keyword match of query words against the sentences
// of text and returns the best-scoring sentence. Like Summarize it is a
// pure function over its inputs.
func Answer(text, query string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return NoContentAnswer
	}

	queryWords := make([]string, 0)
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if len(word) >= minQueryWordLen {
			queryWords = append(queryWords, word)
		}
	}
	if len(queryWords) == 0 {
		return NoMatchAnswer
	}

	sentences := splitSentences(lowered)

	type match struct {
		score    int
		sentence string
	}
	matches := make([]match, 0)
	for _, sentence := range sentences {
		score := 0
		for _, word := range queryWords {
			if strings.Contains(sentence, word) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, match{score: score, sentence: sentence})
		}
	}
	if len(matches) == 0 {
		return NoMatchAnswer
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	return capitalize(matches[0].sentence)
}

func splitSentences(text string) []string {
	sentences := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		for _, part := range strings.Split(line, ".") {
			part = strings.TrimSpace(part)
			if part != "" {
				sentences = append(sentences, part+".")
			}
		}
	}
	return sentences
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
