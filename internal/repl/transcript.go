package repl

import (
	"context"
	"sync"
)

// Transcript keeps the last messages exchanged in the console. It stands in
// for channel history when /summarize runs locally.
type Transcript struct {
	mu    sync.Mutex
	limit int
	lines []string
}

func NewTranscript(limit int) *Transcript {
	if limit <= 0 {
		limit = 100
	}
	return &Transcript{limit: limit}
}

// Add records one message, dropping the oldest beyond the limit.
func (t *Transcript) Add(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, text)
	if over := len(t.lines) - t.limit; over > 0 {
		t.lines = append(t.lines[:0], t.lines[over:]...)
	}
}

// History returns up to limit recorded messages, newest first, the order
// chat platforms list history in.
func (t *Transcript) History(_ context.Context, _ string, limit int) ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(t.lines)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]string, 0, n)
	for i := len(t.lines) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, t.lines[i])
	}
	return out, nil
}

func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.lines)
}
