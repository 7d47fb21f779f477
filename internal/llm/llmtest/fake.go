// Package llmtest provides a deterministic llm.Client for tests.
package llmtest

import (
	"context"
	"strings"
	"sync"

	"github.com/jonathan/applicant-ranker/internal/llm"
)

// Handler answers a prompt. Returning an error simulates a service failure.
type Handler func(prompt string, tier llm.ModelTier) (string, error)

// FakeClient is a scripted, concurrency-safe llm.Client.
type FakeClient struct {
	// JSON answers GenerateJSON calls; Text answers GenerateContent calls.
	// A nil handler returns Err (or an empty string when Err is nil).
	JSON Handler
	Text Handler
	Err  error

	mu      sync.Mutex
	prompts []string
	closed  bool
}

// GenerateContent implements llm.Client.
func (f *FakeClient) GenerateContent(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.record(prompt)
	if f.Text != nil {
		return f.Text(prompt, tier)
	}
	return "", f.Err
}

// GenerateJSON implements llm.Client.
func (f *FakeClient) GenerateJSON(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.record(prompt)
	if f.JSON != nil {
		out, err := f.JSON(prompt, tier)
		return llm.CleanJSONBlock(out), err
	}
	return "", f.Err
}

// GetModel implements llm.Client.
func (f *FakeClient) GetModel(tier llm.ModelTier) string {
	return "fake-" + string(tier)
}

// Close implements llm.Client.
func (f *FakeClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Prompts returns a copy of every prompt received so far.
func (f *FakeClient) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

// CallsContaining counts prompts that contain substr.
func (f *FakeClient) CallsContaining(substr string) int {
	n := 0
	for _, p := range f.Prompts() {
		if strings.Contains(p, substr) {
			n++
		}
	}
	return n
}

// Static returns a handler that always answers with response.
func Static(response string) Handler {
	return func(string, llm.ModelTier) (string, error) {
		return response, nil
	}
}

// Failing returns a handler that always fails with err.
func Failing(err error) Handler {
	return func(string, llm.ModelTier) (string, error) {
		return "", err
	}
}

func (f *FakeClient) record(prompt string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
}
