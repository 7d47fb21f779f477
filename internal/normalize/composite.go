package normalize

import (
	"context"
	"strings"

	"github.com/jonathan/applicant-ranker/internal/dictionary"
	"github.com/jonathan/applicant-ranker/internal/types"
)

// NormalizeCompositeDegreeString canonicalizes every term of a degree line
// and rebuilds it with the line's own connective.
func (n *Normalizer) NormalizeCompositeDegreeString(ctx context.Context, s string) string {
	out, _ := n.normalizeComposite(ctx, dictionary.Degrees, s)
	return out
}

// NormalizeCompositeEligibility canonicalizes every term of an eligibility line.
func (n *Normalizer) NormalizeCompositeEligibility(ctx context.Context, line string) string {
	out, _ := n.normalizeComposite(ctx, dictionary.Eligibilities, line)
	return out
}

// normalizeComposite returns the rebuilt line and the per-term results in order.
// Unresolved terms keep their raw text.
func (n *Normalizer) normalizeComposite(ctx context.Context, domain dictionary.Domain, s string) (string, []types.NormalizationResult) {
	expr := ParseExpression(s)
	if len(expr.Terms) == 0 {
		return strings.TrimSpace(s), nil
	}

	results := make([]types.NormalizationResult, len(expr.Terms))
	terms := make([]string, len(expr.Terms))
	for i, term := range expr.Terms {
		results[i] = n.normalizeValue(ctx, domain, term)
		terms[i] = term
		if results[i].Resolved() {
			terms[i] = results[i].Canonical
		}
	}

	return expr.Join(terms), results
}

// NormalizeTerms is the explaining form of the composite normalizers: it
// returns the rebuilt line together with one result per term.
func (n *Normalizer) NormalizeTerms(ctx context.Context, domain dictionary.Domain, s string) (string, []types.NormalizationResult) {
	return n.normalizeComposite(ctx, domain, s)
}
