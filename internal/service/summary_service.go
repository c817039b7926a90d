package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/lexkit/lexdoc/internal/ai"
	"github.com/lexkit/lexdoc/internal/summarizer"
)

// EngineSmart is the built-in extractive summarizer; any other engine
// name refers to a configured ai provider.
const EngineSmart = "smart"

// SummaryService routes summarization requests either to the local
// extractive summarizer or to an external model provider. Provider
// output is cached; the extractive path is cheap and deterministic so
// it is not.
type SummaryService struct {
	smart       *summarizer.Summarizer
	provider    ai.IProvider
	model       string
	timeout     time.Duration
	engine      string
	defaultTier summarizer.Tier
	cache       *expirable.LRU[string, string]
}

func NewSummaryService(smart *summarizer.Summarizer, provider ai.IProvider, model string, timeout time.Duration, engine string, defaultTier summarizer.Tier) *SummaryService {
	if engine == "" {
		engine = EngineSmart
	}
	if defaultTier == "" {
		defaultTier = summarizer.TierMedium
	}
	cache := expirable.NewLRU[string, string](2048, nil, 2*time.Hour)
	return &SummaryService{
		smart:       smart,
		provider:    provider,
		model:       model,
		timeout:     timeout,
		engine:      engine,
		defaultTier: defaultTier,
		cache:       cache,
	}
}

func (s *SummaryService) DefaultTier() summarizer.Tier {
	return s.defaultTier
}

// NormalizeTier maps anything outside the known tiers onto medium, the
// same fallback the summarizer applies to its budget table.
func NormalizeTier(tier summarizer.Tier) summarizer.Tier {
	switch tier {
	case summarizer.TierShort, summarizer.TierMedium, summarizer.TierLong:
		return tier
	}
	return summarizer.TierMedium
}

// Summarize produces a summary of text for the given tier. The engine
// argument overrides the configured default; when the provider path is
// unusable the extractive summarizer takes over so the call never fails.
func (s *SummaryService) Summarize(ctx context.Context, text string, tier summarizer.Tier, engine string) (string, string) {
	if tier == "" {
		tier = s.defaultTier
	}
	if engine == "" {
		engine = s.engine
	}
	if engine == EngineSmart {
		return s.smart.Summarize(text, tier), EngineSmart
	}

	result, err := s.generate(ctx, text, tier)
	if err != nil {
		logutil.GetLogger(ctx).Warn("model summary failed, falling back to extractive",
			zap.String("engine", engine),
			zap.Error(err),
		)
		return s.smart.Summarize(text, tier), EngineSmart
	}
	return result, engine
}

func (s *SummaryService) generate(ctx context.Context, text string, tier summarizer.Tier) (string, error) {
	if s.provider == nil {
		return "", ai.ErrUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return summarizer.NoTextSentinel, nil
	}
	cacheKey := s.cacheKey(text, tier)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached, nil
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	prompt := buildSummaryPrompt(text, NormalizeTier(tier))
	result, err := s.provider.Generate(ctx, s.model, prompt)
	if err != nil {
		return "", err
	}
	s.cache.Add(cacheKey, result)
	return result, nil
}

func (s *SummaryService) cacheKey(text string, tier summarizer.Tier) string {
	hash := sha256.Sum256([]byte(text))
	return s.provider.Name() + ":" + s.model + ":" + string(tier) + ":" + hex.EncodeToString(hash[:])
}

var tierTargetWords = map[summarizer.Tier]int{
	summarizer.TierShort:  120,
	summarizer.TierMedium: 300,
	summarizer.TierLong:   600,
}

func buildSummaryPrompt(text string, tier summarizer.Tier) string {
	return fmt.Sprintf(
		"Summarize the following legal document in at most %d words. Keep obligations, deadlines, payment terms and termination clauses. Reply with the summary only.\n\nDOCUMENT:\n%s",
		tierTargetWords[tier], text)
}
