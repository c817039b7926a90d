package summarizer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestSummarizer() *Summarizer {
	return New(DefaultConfig())
}

// summaryBody strips the footer block (footer line plus optional note)
// from a summary, leaving only the selected paragraphs.
func summaryBody(t *testing.T, out string) string {
	t.Helper()
	idx := strings.LastIndex(out, "\n\n")
	require.GreaterOrEqual(t, idx, 0, "summary must carry a footer")
	return out[:idx]
}

func TestSummarizeEmptyInput(t *testing.T) {
	s := newTestSummarizer()
	for _, tier := range []Tier{TierShort, TierMedium, TierLong, Tier("bogus"), Tier("")} {
		require.Equal(t, NoTextSentinel, s.Summarize("", tier))
		require.Equal(t, NoTextSentinel, s.Summarize("   \n  ", tier))
	}
}

func TestSummarizeIsDeterministic(t *testing.T) {
	s := newTestSummarizer()
	text := "The parties agree as follows.\n\nEither party may terminate this agreement.\n\nPayment shall be made monthly."
	first := s.Summarize(text, TierShort)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, s.Summarize(text, TierShort))
	}
}

func TestUnknownTierUsesMediumBudget(t *testing.T) {
	s := newTestSummarizer()
	var parts []string
	for i := 0; i < 10; i++ {
		parts = append(parts, fmt.Sprintf("Paragraph %d. %s", i, strings.Repeat("filler text here ", 20)))
	}
	text := strings.Join(parts, "\n\n")
	require.Equal(t, s.Summarize(text, TierMedium), s.Summarize(text, Tier("gigantic")))
	require.Equal(t, s.Summarize(text, TierMedium), s.Summarize(text, Tier("")))
}

func TestStableTieBreakPreservesDocumentOrder(t *testing.T) {
	s := New(Config{
		Keywords:    []string{"zzzunmatched"},
		TierBudgets: DefaultConfig().TierBudgets,
	})
	text := "first paragraph with enough length to stand alone\n\nsecond paragraph with enough length to stand alone\n\nthird paragraph with enough length to stand alone"
	out := s.Summarize(text, TierLong)
	body := summaryBody(t, out)
	first := strings.Index(body, "first")
	second := strings.Index(body, "second")
	third := strings.Index(body, "third")
	require.True(t, first >= 0 && second >= 0 && third >= 0)
	require.Less(t, first, second)
	require.Less(t, second, third)
}

func TestKeywordScoredParagraphOrdersFirst(t *testing.T) {
	s := newTestSummarizer()
	plain := "Plenty of ordinary filler content without any notable register words at all"
	loaded := "The contract shall hereby provide for termination of all duties as set out."
	require.Equal(t, len(plain), len(loaded))

	out := s.Summarize(plain+"\n\n"+loaded, TierLong)
	body := summaryBody(t, out)
	require.Less(t, strings.Index(body, "termination"), strings.Index(body, "ordinary"))

	// Same result when the scored paragraph already leads.
	out = s.Summarize(loaded+"\n\n"+plain, TierLong)
	body = summaryBody(t, out)
	require.Less(t, strings.Index(body, "termination"), strings.Index(body, "ordinary"))
}

func TestScoreCountsEachKeywordOnce(t *testing.T) {
	s := newTestSummarizer()
	// "shall" three times still counts one point, so the three-keyword
	// paragraph must win.
	repeated := "It shall and shall and shall be done with lots of padding words to even out."
	distinct := "The agreement shall provide for termination and more padding words as well.."
	out := s.Summarize(repeated+"\n\n"+distinct, TierLong)
	body := summaryBody(t, out)
	require.Less(t, strings.Index(body, "agreement"), strings.Index(body, "padding words to even out"))
}

func TestTruncationAtSentenceBoundary(t *testing.T) {
	s := newTestSummarizer()
	text := strings.Repeat("a", 950) + "." + strings.Repeat("b", 549)
	require.Len(t, text, 1500)

	out := s.Summarize(text, TierShort)
	body := summaryBody(t, out)
	require.Equal(t, strings.Repeat("a", 950)+".", body)
	require.Contains(t, out, "1 key section(s)")
}

func TestTruncationWithoutPeriodAppendsOne(t *testing.T) {
	s := newTestSummarizer()
	text := strings.Repeat("x", 1500)
	out := s.Summarize(text, TierShort)
	body := summaryBody(t, out)
	require.Len(t, body, 1001)
	require.True(t, strings.HasSuffix(body, "."))
}

func TestBudgetRespected(t *testing.T) {
	s := newTestSummarizer()
	var parts []string
	for i := 0; i < 40; i++ {
		parts = append(parts, fmt.Sprintf("Section %d. The party shall observe clause %d. %s", i, i, strings.Repeat("detail ", 30)))
	}
	text := strings.Join(parts, "\n\n")
	for tier, limit := range DefaultConfig().TierBudgets {
		out := s.Summarize(text, tier)
		body := summaryBody(t, out)
		require.LessOrEqual(t, len(body), limit+1, "tier %s", tier)
	}
}

func TestFooterMatchesAssembledText(t *testing.T) {
	s := newTestSummarizer()
	text := "The agreement covers delivery terms in detail.\n\nPayment shall follow within thirty days of notice."
	out := s.Summarize(text, TierLong)
	body := summaryBody(t, out)
	words := len(strings.Fields(body))
	require.Contains(t, out, fmt.Sprintf("2 key section(s) | %d words", words))
	// Nothing withheld: no additional-detail note.
	require.NotContains(t, out, "additional detail")
}

func TestShortSummaryCarriesAdditionalDetailNote(t *testing.T) {
	s := newTestSummarizer()
	p1 := strings.Repeat("n", 1200)
	p2 := "This agreement shall remain in force. " + strings.Repeat("m", 262)
	require.Len(t, p2, 300)

	out := s.Summarize(p1+"\n\n"+p2, TierShort)
	body := summaryBody(t, out)
	// P2 scores 2, P1 scores 0; including P1 afterwards would overflow
	// the 1000-char budget, so the summary is exactly P2.
	require.Equal(t, p2, body)
	words := len(strings.Fields(p2))
	require.Contains(t, out, fmt.Sprintf("1 key section(s) | %d words", words))
	require.Contains(t, out, "additional detail")
}

func TestSingleBlobFallsBackToLineSplit(t *testing.T) {
	s := newTestSummarizer()
	text := "short\n" +
		"this line is long enough to be kept as its own paragraph\n" +
		"tiny\n" +
		"another sufficiently long line that shall survive the split"
	out := s.Summarize(text, TierLong)
	body := summaryBody(t, out)
	require.NotContains(t, body, "short\n")
	require.NotContains(t, body, "tiny")
	require.Contains(t, body, "long enough to be kept")
	require.Contains(t, body, "shall survive")
}

func TestInjectedKeywordsReplaceDefaults(t *testing.T) {
	s := New(Config{
		Keywords:    []string{"pineapple"},
		TierBudgets: map[Tier]int{TierShort: 1000, TierMedium: 2500, TierLong: 5000},
	})
	neutral := "a perfectly ordinary paragraph that mentions nothing of note whatsoever"
	fruity := "a paragraph of the very same length that mentions a pineapple instead.."
	require.Equal(t, len(neutral), len(fruity))
	out := s.Summarize(neutral+"\n\n"+fruity, TierLong)
	body := summaryBody(t, out)
	require.Less(t, strings.Index(body, "pineapple"), strings.Index(body, "ordinary"))
}

func TestConcurrentUse(t *testing.T) {
	s := newTestSummarizer()
	text := "The parties hereby agree.\n\nTermination requires notice.\n\nPayment shall be monthly."
	want := s.Summarize(text, TierMedium)
	done := make(chan string, 8)
	for i := 0; i < 8; i++ {
		go func() {
			done <- s.Summarize(text, TierMedium)
		}()
	}
	for i := 0; i < 8; i++ {
		require.Equal(t, want, <-done)
	}
}
