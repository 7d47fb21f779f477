package normalize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/applicant-ranker/internal/cache"
	"github.com/jonathan/applicant-ranker/internal/dictionary"
	"github.com/jonathan/applicant-ranker/internal/llm"
	"github.com/jonathan/applicant-ranker/internal/logger"
	"github.com/jonathan/applicant-ranker/internal/prompts"
	"github.com/jonathan/applicant-ranker/internal/schemas"
	"github.com/jonathan/applicant-ranker/internal/similarity"
	"github.com/jonathan/applicant-ranker/internal/types"
	"go.uber.org/zap"
)

const (
	// UnknownKey is the literal the classifier returns when no candidate fits.
	UnknownKey = "UNKNOWN"
	// DefaultUnknownConfidence is used when the classifier declines without a confidence.
	DefaultUnknownConfidence = 0.25
	// DefaultMatchConfidence is used when the classifier matches without a confidence.
	DefaultMatchConfidence = 0.8
	// DefaultCacheTTL bounds how long a classification answer is reused.
	DefaultCacheTTL = 24 * time.Hour
)

var errNoClient = errors.New("no text-generation client configured")

// Options configures a Normalizer. All fields are optional.
type Options struct {
	// Cache remembers classification answers across calls and processes.
	Cache    cache.Cache
	CacheTTL time.Duration

	// Tier selects the model used for classification (default lite).
	Tier llm.ModelTier

	Logger *zap.Logger
}

// Normalizer canonicalizes degree and eligibility strings.
type Normalizer struct {
	loader   *dictionary.Loader
	client   llm.Client
	cache    cache.Cache
	cacheTTL time.Duration
	tier     llm.ModelTier
	logger   *zap.Logger
}

// New creates a normalizer. client may be nil, in which case every dictionary
// miss resolves to the fallback method.
func New(loader *dictionary.Loader, client llm.Client, opts Options) *Normalizer {
	n := &Normalizer{
		loader:   loader,
		client:   client,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		tier:     opts.Tier,
		logger:   opts.Logger,
	}
	if n.loader == nil {
		n.loader = dictionary.NewLoader(nil, nil, opts.Logger)
	}
	if n.cacheTTL <= 0 {
		n.cacheTTL = DefaultCacheTTL
	}
	if n.tier == "" {
		n.tier = llm.TierLite
	}
	if n.logger == nil {
		n.logger = zap.NewNop()
	}
	return n
}

// Loader returns the dictionary loader backing the normalizer.
func (n *Normalizer) Loader() *dictionary.Loader {
	return n.loader
}

// NormalizeDegreeValue canonicalizes a single degree string. It never fails.
func (n *Normalizer) NormalizeDegreeValue(ctx context.Context, raw string) types.NormalizationResult {
	return n.normalizeValue(ctx, dictionary.Degrees, raw)
}

// NormalizeEligibilityValue canonicalizes a single eligibility string. It never fails.
func (n *Normalizer) NormalizeEligibilityValue(ctx context.Context, raw string) types.NormalizationResult {
	return n.normalizeValue(ctx, dictionary.Eligibilities, raw)
}

// classification is the JSON answer expected from the classifier.
type classification struct {
	CanonicalKey *string  `json:"canonical_key"`
	Confidence   *float64 `json:"confidence,omitempty"`
	Reasoning    string   `json:"reasoning,omitempty"`
}

func (n *Normalizer) normalizeValue(ctx context.Context, domain dictionary.Domain, raw string) types.NormalizationResult {
	result := types.NormalizationResult{Raw: raw, Method: types.MethodFallback}

	value := strings.TrimSpace(raw)
	if value == "" {
		return result
	}

	if err := n.loader.EnsureLoaded(ctx); err != nil {
		n.logger.Warn("dictionary load abandoned by caller",
			zap.String("domain", string(domain)), logger.Raw(raw), zap.Error(err))
		return result
	}
	index := n.loader.Index(domain)

	if entry, ok := index.Lookup(value); ok {
		return resolved(result, entry, types.MethodDictionary, 1)
	}

	if index.Len() == 0 {
		// Nothing the classifier names could pass the index check below.
		n.logger.Debug("dictionary empty, skipping classifier",
			zap.String("domain", string(domain)), logger.Raw(raw))
		return result
	}

	candidates := index.Candidates(value, dictionary.MaxCandidates)
	if len(candidates) == 0 {
		n.logger.Debug("no dictionary candidates",
			zap.String("domain", string(domain)), logger.Raw(raw))
		return result
	}

	answer, err := n.classify(ctx, domain, value, candidates)
	if err != nil {
		n.logger.Warn("classification failed, keeping raw text", zap.Error(err))
		return result
	}
	if answer == nil {
		// The service answered but the payload could not be used.
		result.Method = types.MethodAIClassifier
		result.Confidence = DefaultUnknownConfidence
		return result
	}

	result.Method = types.MethodAIClassifier
	result.Reasoning = answer.Reasoning

	key := ""
	if answer.CanonicalKey != nil {
		key = strings.TrimSpace(*answer.CanonicalKey)
	}
	if key == "" || strings.EqualFold(key, UnknownKey) {
		result.Confidence = confidenceOr(answer.Confidence, DefaultUnknownConfidence)
		return result
	}

	entry, ok := index.Get(key)
	if !ok {
		n.logger.Warn("classifier returned a key outside the dictionary",
			zap.String("domain", string(domain)), logger.Raw(raw), zap.String("key", key))
		result.Confidence = DefaultUnknownConfidence
		return result
	}

	out := resolved(result, entry, types.MethodAIClassifier, confidenceOr(answer.Confidence, DefaultMatchConfidence))
	out.Reasoning = answer.Reasoning
	return out
}

// classify returns (nil, nil) when the service answered with something that
// is not a valid classification, and an error when the call itself failed.
func (n *Normalizer) classify(ctx context.Context, domain dictionary.Domain, value string, candidates []dictionary.Candidate) (*classification, error) {
	cacheKey := fmt.Sprintf("%s:%s", domain, similarity.NormalizeKey(value))
	if payload, ok := n.cached(ctx, cacheKey); ok {
		if answer, err := decodeClassification(payload); err == nil {
			return answer, nil
		}
	}

	if n.client == nil {
		return nil, &ClassificationError{Domain: domain, Raw: value, Stage: "generate", Cause: errNoClient}
	}

	prompt, err := prompts.Render(promptID(domain), prompts.Vars{
		"Raw":        value,
		"Candidates": formatCandidates(domain, candidates),
	})
	if err != nil {
		return nil, &ClassificationError{Domain: domain, Raw: value, Stage: "prompt", Cause: err}
	}

	response, err := n.client.GenerateJSON(ctx, prompt, n.tier)
	if err != nil {
		return nil, &ClassificationError{Domain: domain, Raw: value, Stage: "generate", Cause: err}
	}
	n.logger.Debug("classifier answered",
		append(logger.Preview("response", response), zap.String("domain", string(domain)), zap.Int("prompt_len", len(prompt)))...)

	payload := llm.ExtractJSONObject(response)
	answer, err := decodeClassification(payload)
	if err != nil {
		n.logger.Warn("unusable classification answer",
			zap.Error(&ClassificationError{Domain: domain, Raw: value, Stage: "parse", Cause: err}))
		return nil, nil
	}

	n.store(ctx, cacheKey, payload)
	return answer, nil
}

func decodeClassification(payload string) (*classification, error) {
	if err := schemas.Validate(schemas.Classification, payload); err != nil {
		return nil, err
	}
	var answer classification
	if err := json.Unmarshal([]byte(payload), &answer); err != nil {
		return nil, err
	}
	return &answer, nil
}

func (n *Normalizer) cached(ctx context.Context, key string) (string, bool) {
	if n.cache == nil {
		return "", false
	}
	payload, err := n.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			n.logger.Debug("classification cache read failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return payload, true
}

func (n *Normalizer) store(ctx context.Context, key, payload string) {
	if n.cache == nil {
		return
	}
	if err := n.cache.Set(ctx, key, payload, n.cacheTTL); err != nil {
		n.logger.Debug("classification cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func promptID(domain dictionary.Domain) prompts.ID {
	if domain == dictionary.Eligibilities {
		return prompts.ClassifyEligibility
	}
	return prompts.ClassifyDegree
}

func formatCandidates(domain dictionary.Domain, candidates []dictionary.Candidate) string {
	var sb strings.Builder
	for _, c := range candidates {
		e := c.Entry
		if domain == dictionary.Eligibilities {
			fmt.Fprintf(&sb, "- %s | %s | %s\n", e.Key, e.Canonical, orDash(e.Category))
			continue
		}
		fmt.Fprintf(&sb, "- %s | %s | %s | %s\n", e.Key, e.Canonical, orDash(e.Level), orDash(e.FieldGroup))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func resolved(base types.NormalizationResult, entry types.CanonicalEntry, method types.NormalizationMethod, confidence float64) types.NormalizationResult {
	key := entry.Key
	base.CanonicalKey = &key
	base.Canonical = entry.Canonical
	base.Method = method
	base.Confidence = confidence
	return base
}

func confidenceOr(c *float64, def float64) float64 {
	if c == nil {
		return def
	}
	return min(max(*c, 0), 1)
}
