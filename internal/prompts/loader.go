// Package prompts holds the embedded classification, tie-break, insight and
// comparison prompts and renders them with strict placeholder checking.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// ID names one embedded prompt by file and key.
type ID struct {
	File string
	Key  string
}

func (id ID) String() string {
	return id.File + "#" + id.Key
}

// Prompts used by the normalizer and the ranking pipeline.
var (
	ClassifyDegree      = ID{File: "normalization.json", Key: "classify-degree"}
	ClassifyEligibility = ID{File: "normalization.json", Key: "classify-eligibility"}
	TieBreak            = ID{File: "ranking.json", Key: "tie-break"}
	Insight             = ID{File: "ranking.json", Key: "insight"}
	Compare             = ID{File: "ranking.json", Key: "compare"}
)

// Vars maps placeholder names to their values.
type Vars map[string]string

var placeholderPattern = regexp.MustCompile(`\{\{\.([A-Za-z][A-Za-z0-9]*)\}\}`)

// MissingVarsError reports placeholders that were given no value.
type MissingVarsError struct {
	ID    ID
	Names []string
}

func (e *MissingVarsError) Error() string {
	return fmt.Sprintf("prompt %s: no value for %s", e.ID, strings.Join(e.Names, ", "))
}

var (
	loadOnce sync.Once
	loaded   map[ID]string
	loadErr  error
)

// load parses every embedded prompt file once.
func load() (map[ID]string, error) {
	loadOnce.Do(func() {
		files, err := fs.Glob(promptFiles, "*.json")
		if err != nil {
			loadErr = fmt.Errorf("failed to list prompt files: %w", err)
			return
		}

		all := make(map[ID]string)
		for _, name := range files {
			data, err := promptFiles.ReadFile(name)
			if err != nil {
				loadErr = fmt.Errorf("failed to read prompt file %s: %w", name, err)
				return
			}
			var byKey map[string]string
			if err := json.Unmarshal(data, &byKey); err != nil {
				loadErr = fmt.Errorf("failed to parse prompt file %s: %w", name, err)
				return
			}
			for key, text := range byKey {
				all[ID{File: name, Key: key}] = text
			}
		}
		loaded = all
	})
	return loaded, loadErr
}

// Get returns the unrendered text of a prompt.
func Get(id ID) (string, error) {
	all, err := load()
	if err != nil {
		return "", err
	}
	text, ok := all[id]
	if !ok {
		return "", fmt.Errorf("prompt %s not found", id)
	}
	return text, nil
}

// IDs lists every embedded prompt, sorted by file then key.
func IDs() ([]ID, error) {
	all, err := load()
	if err != nil {
		return nil, err
	}
	ids := make([]ID, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].File != ids[j].File {
			return ids[i].File < ids[j].File
		}
		return ids[i].Key < ids[j].Key
	})
	return ids, nil
}

// Placeholders returns the distinct placeholder names in text in order of
// first appearance.
func Placeholders(text string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Render fills every placeholder of the prompt from vars in a single pass,
// so values are never themselves expanded. A placeholder without a value is
// a *MissingVarsError; extra vars are ignored.
func Render(id ID, vars Vars) (string, error) {
	text, err := Get(id)
	if err != nil {
		return "", err
	}

	var missing []string
	for _, name := range Placeholders(text) {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", &MissingVarsError{ID: id, Names: missing}
	}

	return placeholderPattern.ReplaceAllStringFunc(text, func(m string) string {
		return vars[placeholderPattern.FindStringSubmatch(m)[1]]
	}), nil
}
