package dictionary

import (
	"context"
	"sync/atomic"
)

// countingSource counts Load calls and blocks until release is closed.
type countingSource struct {
	data    []byte
	calls   atomic.Int32
	release chan struct{}
}

func (s *countingSource) Name() string { return "counting" }

func (s *countingSource) Load(_ context.Context) ([]byte, error) {
	s.calls.Add(1)
	if s.release != nil {
		<-s.release
	}
	return s.data, nil
}
