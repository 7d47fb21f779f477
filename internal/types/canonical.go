//nolint:revive // types is a standard Go package name pattern
package types

// CanonicalEntry is one dictionary record: a canonical degree or eligibility
// together with the free-text aliases that map onto it.
type CanonicalEntry struct {
	Key        string   `json:"key" yaml:"key"`
	Canonical  string   `json:"canonical" yaml:"canonical"`
	Level      string   `json:"level,omitempty" yaml:"level,omitempty"`
	Category   string   `json:"category,omitempty" yaml:"category,omitempty"`
	FieldGroup string   `json:"field_group,omitempty" yaml:"field_group,omitempty"`
	Aliases    []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// NormalizationMethod records how a NormalizationResult was obtained.
type NormalizationMethod string

const (
	// MethodDictionary means the input hit the alias index directly.
	MethodDictionary NormalizationMethod = "dictionary"
	// MethodAIClassifier means the text-generation service picked the key (or declined).
	MethodAIClassifier NormalizationMethod = "ai-classifier"
	// MethodFallback means no canonical form could be determined.
	MethodFallback NormalizationMethod = "fallback"
)

// NormalizationResult is produced per normalization call and never persisted by the core.
type NormalizationResult struct {
	CanonicalKey *string             `json:"canonical_key,omitempty"`
	Canonical    string              `json:"canonical,omitempty"`
	Method       NormalizationMethod `json:"method"`
	Confidence   float64             `json:"confidence"`
	Raw          string              `json:"raw"`
	Reasoning    string              `json:"reasoning,omitempty"`
}

// Resolved reports whether a canonical key was found.
func (r NormalizationResult) Resolved() bool {
	return r.CanonicalKey != nil && *r.CanonicalKey != ""
}
