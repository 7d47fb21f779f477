package dictionary

import (
	"context"
	"errors"
	"sync"

	"github.com/jonathan/applicant-ranker/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var errNoSource = errors.New("no source configured")

// DomainStatus describes the outcome of loading one dictionary.
type DomainStatus struct {
	Source  string `json:"source"`
	Entries int    `json:"entries"`
	Error   string `json:"error,omitempty"`
}

// Status describes both dictionaries after EnsureLoaded.
type Status struct {
	Loaded        bool         `json:"loaded"`
	Degrees       DomainStatus `json:"degrees"`
	Eligibilities DomainStatus `json:"eligibilities"`
}

// Loader owns the two dictionary indices for the life of the process.
// EnsureLoaded performs the load once; concurrent callers share the
// in-flight load. Indices are read-only once published.
type Loader struct {
	degrees       Source
	eligibilities Source
	logger        *zap.Logger

	group singleflight.Group

	mu               sync.RWMutex
	loaded           bool
	degreeIndex      *Index
	eligibilityIndex *Index
	status           Status
}

// NewLoader creates a loader. Either source may be nil, in which case that
// domain degrades to AI-only normalization.
func NewLoader(degrees, eligibilities Source, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		degrees:          degrees,
		eligibilities:    eligibilities,
		logger:           logger,
		degreeIndex:      NewIndex(nil),
		eligibilityIndex: NewIndex(nil),
	}
}

// EnsureLoaded loads both dictionaries on first call. Source failures never
// surface here; only cancellation of ctx while waiting is returned.
func (l *Loader) EnsureLoaded(ctx context.Context) error {
	if l.isLoaded() {
		return nil
	}

	// The shared load must not die with the first caller's context.
	loadCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan("load", func() (any, error) {
		if l.isLoaded() {
			return nil, nil
		}
		l.load(loadCtx)
		return nil, nil
	})

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Degrees returns the degree index (empty before loading or on failure).
func (l *Loader) Degrees() *Index {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.degreeIndex
}

// Eligibilities returns the eligibility index (empty before loading or on failure).
func (l *Loader) Eligibilities() *Index {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.eligibilityIndex
}

// Index returns the index for a domain.
func (l *Loader) Index(domain Domain) *Index {
	if domain == Eligibilities {
		return l.Eligibilities()
	}
	return l.Degrees()
}

// Status reports per-domain load results.
func (l *Loader) Status() Status {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.status
}

func (l *Loader) isLoaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

func (l *Loader) load(ctx context.Context) {
	var (
		degreeEntries, eligibilityEntries []types.CanonicalEntry
		degreeStatus, eligibilityStatus   DomainStatus
	)

	var g errgroup.Group
	g.Go(func() error {
		degreeEntries, degreeStatus = l.loadDomain(ctx, Degrees, l.degrees)
		return nil
	})
	g.Go(func() error {
		eligibilityEntries, eligibilityStatus = l.loadDomain(ctx, Eligibilities, l.eligibilities)
		return nil
	})
	_ = g.Wait()

	degreeIndex := NewIndex(degreeEntries)
	eligibilityIndex := NewIndex(eligibilityEntries)
	degreeStatus.Entries = degreeIndex.Len()
	eligibilityStatus.Entries = eligibilityIndex.Len()

	// Both maps are published together, only after both sources were processed.
	l.mu.Lock()
	l.degreeIndex = degreeIndex
	l.eligibilityIndex = eligibilityIndex
	l.status = Status{Loaded: true, Degrees: degreeStatus, Eligibilities: eligibilityStatus}
	l.loaded = true
	l.mu.Unlock()

	l.logger.Info("canonical dictionaries loaded",
		zap.Int("degrees", degreeIndex.Len()),
		zap.Int("eligibilities", eligibilityIndex.Len()),
	)
}

func (l *Loader) loadDomain(ctx context.Context, domain Domain, src Source) ([]types.CanonicalEntry, DomainStatus) {
	if src == nil {
		err := &InputError{Domain: domain, Source: "none", Cause: errNoSource}
		l.logger.Warn("dictionary unavailable, using AI-only normalization",
			zap.String("domain", string(domain)), zap.Error(err))
		return nil, DomainStatus{Source: "none", Error: err.Error()}
	}

	status := DomainStatus{Source: src.Name()}

	data, err := src.Load(ctx)
	if err != nil {
		inputErr := &InputError{Domain: domain, Source: src.Name(), Cause: err}
		l.logger.Warn("dictionary load failed, using AI-only normalization",
			zap.String("domain", string(domain)), zap.String("source", src.Name()), zap.Error(inputErr))
		status.Error = inputErr.Error()
		return nil, status
	}

	entries, err := Parse(data)
	if err != nil {
		inputErr := &InputError{Domain: domain, Source: src.Name(), Cause: err}
		l.logger.Warn("dictionary parse failed, using AI-only normalization",
			zap.String("domain", string(domain)), zap.String("source", src.Name()), zap.Error(inputErr))
		status.Error = inputErr.Error()
		return nil, status
	}

	return entries, status
}
