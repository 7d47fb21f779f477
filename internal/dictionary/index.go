package dictionary

import (
	"sort"

	"github.com/jonathan/applicant-ranker/internal/similarity"
	"github.com/jonathan/applicant-ranker/internal/types"
)

// MaxCandidates bounds the candidate list handed to the AI classifier.
const MaxCandidates = 20

// Index maps keys and normalized aliases onto canonical entries. It is
// immutable after construction.
type Index struct {
	entries []types.CanonicalEntry
	byKey   map[string]int
	aliases map[string]int
}

// Candidate is a dictionary entry ranked by token overlap with an input.
type Candidate struct {
	Entry types.CanonicalEntry
	Score float64
}

// NewIndex builds an index. The canonical string and the key of every entry
// are indexed as aliases of that entry. On alias collisions the first writer
// wins; later entries never overwrite an existing alias.
func NewIndex(entries []types.CanonicalEntry) *Index {
	idx := &Index{
		entries: make([]types.CanonicalEntry, 0, len(entries)),
		byKey:   make(map[string]int, len(entries)),
		aliases: make(map[string]int, len(entries)*4),
	}

	for _, entry := range entries {
		if _, dup := idx.byKey[entry.Key]; dup {
			continue
		}
		pos := len(idx.entries)
		idx.entries = append(idx.entries, entry)
		idx.byKey[entry.Key] = pos

		names := append([]string{entry.Canonical, entry.Key}, entry.Aliases...)
		for _, name := range names {
			norm := similarity.NormalizeKey(name)
			if norm == "" {
				continue
			}
			if _, taken := idx.aliases[norm]; !taken {
				idx.aliases[norm] = pos
			}
		}
	}

	return idx
}

// Len returns the number of canonical entries.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}

// Lookup resolves raw text through the alias index.
func (idx *Index) Lookup(raw string) (types.CanonicalEntry, bool) {
	if idx == nil {
		return types.CanonicalEntry{}, false
	}
	pos, ok := idx.aliases[similarity.NormalizeKey(raw)]
	if !ok {
		return types.CanonicalEntry{}, false
	}
	return idx.entries[pos], true
}

// Get returns the entry with the given key.
func (idx *Index) Get(key string) (types.CanonicalEntry, bool) {
	if idx == nil {
		return types.CanonicalEntry{}, false
	}
	pos, ok := idx.byKey[key]
	if !ok {
		return types.CanonicalEntry{}, false
	}
	return idx.entries[pos], true
}

// Candidates returns up to limit entries with positive token similarity to raw,
// best first. An entry scores the maximum over its canonical string and aliases.
func (idx *Index) Candidates(raw string, limit int) []Candidate {
	if idx == nil || limit <= 0 {
		return nil
	}

	var out []Candidate
	for _, entry := range idx.entries {
		best := similarity.TokenSimilarity(raw, entry.Canonical)
		for _, alias := range entry.Aliases {
			best = max(best, similarity.TokenSimilarity(raw, alias))
		}
		if best > 0 {
			out = append(out, Candidate{Entry: entry, Score: best})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
