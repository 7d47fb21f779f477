package dictionary

import (
	"fmt"
	"strings"

	"github.com/jonathan/applicant-ranker/internal/types"
	"gopkg.in/yaml.v3"
)

// wrapperKeys are accepted as a single top-level key wrapping the actual entries.
var wrapperKeys = []string{"degrees", "eligibilities", "items", "entries"}

// rawEntry is the on-disk record shape shared by both dictionaries.
type rawEntry struct {
	Key        string   `yaml:"key"`
	Canonical  string   `yaml:"canonical"`
	Aliases    []string `yaml:"aliases"`
	Level      string   `yaml:"level"`
	Category   string   `yaml:"category"`
	FieldGroup string   `yaml:"field_group"`
}

// document is the tagged union of the two accepted shapes. Exactly one of
// List or Map is set after decodeDocument.
type document struct {
	List []rawEntry
	Map  []keyedEntry
}

type keyedEntry struct {
	Key   string
	Entry rawEntry
}

// Parse decodes a dictionary document (YAML or JSON) into canonical entries.
// Both the list-of-records form and the keyed-map form are accepted; entries
// without a key are skipped.
func Parse(data []byte) ([]types.CanonicalEntry, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("empty dictionary document")
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary document: %w", err)
	}

	doc, err := decodeDocument(&root)
	if err != nil {
		return nil, err
	}

	return doc.entries(), nil
}

func decodeDocument(node *yaml.Node) (document, error) {
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return document{}, fmt.Errorf("empty dictionary document")
		}
		node = node.Content[0]
	}

	switch node.Kind {
	case yaml.SequenceNode:
		var list []rawEntry
		if err := node.Decode(&list); err != nil {
			return document{}, fmt.Errorf("failed to decode dictionary list: %w", err)
		}
		return document{List: list}, nil

	case yaml.MappingNode:
		if inner := unwrap(node); inner != nil {
			return decodeDocument(inner)
		}
		return decodeMap(node)

	default:
		return document{}, fmt.Errorf("dictionary document must be a list or a mapping")
	}
}

// unwrap returns the value of a lone wrapper key such as "degrees:".
func unwrap(node *yaml.Node) *yaml.Node {
	if len(node.Content) != 2 {
		return nil
	}
	key := strings.ToLower(node.Content[0].Value)
	value := node.Content[1]
	for _, w := range wrapperKeys {
		if key == w && (value.Kind == yaml.SequenceNode || value.Kind == yaml.MappingNode) {
			return value
		}
	}
	return nil
}

func decodeMap(node *yaml.Node) (document, error) {
	doc := document{Map: make([]keyedEntry, 0, len(node.Content)/2)}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := node.Content[i+1]

		var entry rawEntry
		switch value.Kind {
		case yaml.ScalarNode:
			entry.Canonical = value.Value
		case yaml.MappingNode:
			if err := value.Decode(&entry); err != nil {
				return document{}, fmt.Errorf("failed to decode dictionary entry %q: %w", key, err)
			}
		default:
			return document{}, fmt.Errorf("dictionary entry %q must be a mapping or a string", key)
		}
		doc.Map = append(doc.Map, keyedEntry{Key: key, Entry: entry})
	}
	return doc, nil
}

func (d document) entries() []types.CanonicalEntry {
	var out []types.CanonicalEntry
	if d.List != nil {
		out = make([]types.CanonicalEntry, 0, len(d.List))
		for _, e := range d.List {
			if entry, ok := e.canonical(""); ok {
				out = append(out, entry)
			}
		}
		return out
	}

	out = make([]types.CanonicalEntry, 0, len(d.Map))
	for _, ke := range d.Map {
		if entry, ok := ke.Entry.canonical(ke.Key); ok {
			out = append(out, entry)
		}
	}
	return out
}

func (e rawEntry) canonical(fallbackKey string) (types.CanonicalEntry, bool) {
	key := strings.TrimSpace(e.Key)
	if key == "" {
		key = strings.TrimSpace(fallbackKey)
	}
	if key == "" {
		return types.CanonicalEntry{}, false
	}

	canonical := strings.TrimSpace(e.Canonical)
	if canonical == "" {
		canonical = key
	}

	aliases := make([]string, 0, len(e.Aliases))
	for _, a := range e.Aliases {
		if a = strings.TrimSpace(a); a != "" {
			aliases = append(aliases, a)
		}
	}

	return types.CanonicalEntry{
		Key:        key,
		Canonical:  canonical,
		Level:      strings.TrimSpace(e.Level),
		Category:   strings.TrimSpace(e.Category),
		FieldGroup: strings.TrimSpace(e.FieldGroup),
		Aliases:    aliases,
	}, true
}
