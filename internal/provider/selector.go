package provider

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"ideabot/internal/chat"
)

// Kind identifies one of the two interchangeable backends.
type Kind int32

const (
	KindGPT Kind = iota
	KindClaude
)

func (k Kind) String() string {
	if k == KindClaude {
		return "claude"
	}
	return "gpt"
}

// Label is the upper-case name shown to chat users.
func (k Kind) Label() string {
	return strings.ToUpper(k.String())
}

// Other returns the backend a toggle switches to.
func (k Kind) Other() Kind {
	if k == KindGPT {
		return KindClaude
	}
	return KindGPT
}

// ParseKind accepts "gpt"/"openai" and "claude"/"anthropic".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "gpt", "openai":
		return KindGPT, nil
	case "claude", "anthropic":
		return KindClaude, nil
	}
	return KindGPT, fmt.Errorf("unknown backend %q", s)
}

// Selector 进程级的后端开关，所有补全调用都经由当前活跃后端
// Selector holds the process-wide active backend flag and forwards every
// completion to whichever backend is active. Safe for concurrent use.
type Selector struct {
	backends [2]Backend
	active   atomic.Int32
}

// NewSelector creates a selector starting at initial.
func NewSelector(gpt, claude Backend, initial Kind) *Selector {
	s := &Selector{backends: [2]Backend{gpt, claude}}
	s.active.Store(int32(initial))
	return s
}

func (s *Selector) Current() Kind {
	return Kind(s.active.Load())
}

// Toggle flips the active backend and returns the new one.
func (s *Selector) Toggle() Kind {
	for {
		cur := s.active.Load()
		next := int32(Kind(cur).Other())
		if s.active.CompareAndSwap(cur, next) {
			return Kind(next)
		}
	}
}

// Active returns the backend currently selected.
func (s *Selector) Active() Backend {
	return s.backends[s.Current()]
}

func (s *Selector) CompleteChat(ctx context.Context, turns []chat.Turn, opts ...CallOption) (string, error) {
	b := s.Active()
	if b == nil {
		return "", &BackendError{Backend: s.Current().String(), Op: "chat", Err: fmt.Errorf("backend not configured")}
	}
	return b.CompleteChat(ctx, turns, opts...)
}

func (s *Selector) CompleteSingle(ctx context.Context, prompt string, opts ...CallOption) (string, error) {
	b := s.Active()
	if b == nil {
		return "", &BackendError{Backend: s.Current().String(), Op: "single", Err: fmt.Errorf("backend not configured")}
	}
	return b.CompleteSingle(ctx, prompt, opts...)
}
