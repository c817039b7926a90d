package summarizer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// NoTextSentinel is returned when there is nothing to summarize. Callers
// surface it to the client as-is.
const NoTextSentinel = "no text available to summarize"

const additionalDetailNote = "Note: the full document contains additional detail beyond this summary."

type Tier string

const (
	TierShort  Tier = "short"
	TierMedium Tier = "medium"
	TierLong   Tier = "long"
)

// minLineLen filters out headings and stray fragments when a document has
// no blank-line structure and has to be split line by line.
const minLineLen = 20

type Config struct {
	Keywords    []string     `json:"keywords"`
	TierBudgets map[Tier]int `json:"tier_budgets"`
}

func DefaultConfig() Config {
	return Config{
		Keywords: []string{
			"agreement",
			"shall",
			"whereas",
			"hereby",
			"party",
			"parties",
			"termination",
			"terminate",
			"liability",
			"indemnification",
			"indemnify",
			"warranty",
			"obligation",
			"confidential",
			"breach",
			"governing law",
			"jurisdiction",
			"payment",
			"notice",
			"effective date",
		},
		TierBudgets: map[Tier]int{
			TierShort:  1000,
			TierMedium: 2500,
			TierLong:   5000,
		},
	}
}

// Summarizer produces extractive summaries: paragraphs are scored by the
// presence of configured keywords and greedily packed into a character
// budget chosen by tier. It holds no mutable state and is safe for
// concurrent use.
type Summarizer struct {
	keywords []string
	budgets  map[Tier]int
}

func New(cfg Config) *Summarizer {
	keywords := make([]string, 0, len(cfg.Keywords))
	for _, kw := range cfg.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	budgets := make(map[Tier]int, len(cfg.TierBudgets))
	for tier, budget := range cfg.TierBudgets {
		if budget > 0 {
			budgets[tier] = budget
		}
	}
	if len(budgets) == 0 {
		budgets = DefaultConfig().TierBudgets
	}
	return &Summarizer{keywords: keywords, budgets: budgets}
}

type scoredParagraph struct {
	score int
	text  string
}

var blankLineRe = regexp.MustCompile(`\n\s*\n`)

// Summarize builds an extractive summary of text under the character
// budget of the given tier. Unknown tiers fall back to the medium budget.
// The only non-summary output is NoTextSentinel for blank input.
func (s *Summarizer) Summarize(text string, tier Tier) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return NoTextSentinel
	}

	paragraphs := splitParagraphs(trimmed)
	budget := s.budget(tier)

	scored := make([]scoredParagraph, 0, len(paragraphs))
	for _, p := range paragraphs {
		scored = append(scored, scoredParagraph{score: s.score(p), text: p})
	}
	// Stable: equally scored paragraphs keep document order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	selected := make([]string, 0, len(scored))
	total := 0
	for i, sp := range scored {
		length := len(sp.text)
		if i == 0 && length > budget {
			truncated := truncateAtPeriod(sp.text, budget)
			selected = append(selected, truncated)
			total = len(truncated)
			break
		}
		if total > 0 && total+length > budget {
			continue
		}
		selected = append(selected, sp.text)
		total += length
		if total >= budget*4/5 {
			break
		}
	}
	if len(selected) == 0 {
		// Unreachable under the rules above, kept as a guard.
		selected = append(selected, truncateAtPeriod(paragraphs[0], budget))
	}

	body := strings.Join(selected, "\n\n")
	wordCount := len(strings.Fields(body))
	out := body + "\n\n" + fmt.Sprintf("%d key section(s) | %d words", len(selected), wordCount)
	if len(body)*10 < len(trimmed)*9 {
		out += "\n" + additionalDetailNote
	}
	return out
}

func (s *Summarizer) budget(tier Tier) int {
	if budget, ok := s.budgets[tier]; ok {
		return budget
	}
	if budget, ok := s.budgets[TierMedium]; ok {
		return budget
	}
	return DefaultConfig().TierBudgets[TierMedium]
}

func (s *Summarizer) score(paragraph string) int {
	lower := strings.ToLower(paragraph)
	score := 0
	for _, kw := range s.keywords {
		if strings.Contains(lower, kw) {
			score++
		}
	}
	return score
}

// splitParagraphs divides text on blank lines. Documents without any
// blank-line structure are re-split on single newlines, dropping short
// fragments, so a flat wall of text does not become one giant paragraph.
func splitParagraphs(trimmed string) []string {
	parts := blankLineRe.Split(trimmed, -1)
	paragraphs := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			paragraphs = append(paragraphs, part)
		}
	}
	if len(paragraphs) > 1 {
		return paragraphs
	}

	lines := strings.Split(trimmed, "\n")
	relined := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) >= minLineLen {
			relined = append(relined, line)
		}
	}
	if len(relined) > 0 {
		return relined
	}
	return []string{trimmed}
}

// truncateAtPeriod cuts text to at most limit characters, preferring the
// last sentence boundary inside the window. Without one, the hard cut
// gets a closing period, which may exceed limit by a single byte.
func truncateAtPeriod(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := text[:limit]
	if idx := strings.LastIndexByte(cut, '.'); idx >= 0 {
		return cut[:idx+1]
	}
	return cut + "."
}
