package ranking

import (
	"runtime"
	"time"

	"github.com/jonathan/applicant-ranker/internal/llm"
)

// MaxAdjustment bounds a single AI tie-break adjustment in either direction.
const MaxAdjustment = 2.0

// Options tunes a Pipeline.
type Options struct {
	// SortEpsilon is the distance below which two sort keys are considered equal.
	SortEpsilon float64
	// TieEpsilon is the maximum spread of total scores inside one tie group.
	TieEpsilon  float64
	// InsightTopK is how many top-ranked applicants get an insight.
	InsightTopK int

	AITieBreak bool
	Insights   bool

	// Concurrency bounds parallel scoring; <= 0 means GOMAXPROCS.
	Concurrency int
	// AITimeout bounds each tie-break and insight call.
	AITimeout   time.Duration

	TieBreakTier llm.ModelTier
	InsightTier  llm.ModelTier
	CompareTier  llm.ModelTier
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		SortEpsilon:  0.01,
		TieEpsilon:   0.1,
		InsightTopK:  5,
		AITieBreak:   true,
		Insights:     true,
		Concurrency:  runtime.GOMAXPROCS(0),
		AITimeout:    llm.DefaultTimeout,
		TieBreakTier: llm.TierStandard,
		InsightTier:  llm.TierStandard,
		CompareTier:  llm.TierAdvanced,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.SortEpsilon <= 0 {
		o.SortEpsilon = d.SortEpsilon
	}
	if o.TieEpsilon <= 0 {
		o.TieEpsilon = d.TieEpsilon
	}
	if o.InsightTopK < 0 {
		o.InsightTopK = 0
	}
	if o.Concurrency <= 0 {
		o.Concurrency = d.Concurrency
	}
	if o.AITimeout <= 0 {
		o.AITimeout = d.AITimeout
	}
	if o.TieBreakTier == "" {
		o.TieBreakTier = d.TieBreakTier
	}
	if o.InsightTier == "" {
		o.InsightTier = d.InsightTier
	}
	if o.CompareTier == "" {
		o.CompareTier = d.CompareTier
	}
	return o
}
