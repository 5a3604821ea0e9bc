package contextmgr

import (
	"sync"
	"unicode/utf8"

	"ideabot/internal/chat"
)

// MaxContextLength is the default bound on the summed content length of one window.
const MaxContextLength = 4096

// Window is the ordered turn sequence kept for one user.
type Window []chat.Turn

// Length returns the summed content length of the window in code points.
func (w Window) Length() int {
	total := 0
	for _, t := range w {
		total += Length(t.Content)
	}
	return total
}

// Length measures content the way windows are bounded: in Unicode code points.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}

// Stats 单个用户窗口的概况
// Stats summarizes one user's window
type Stats struct {
	Turns           int
	Length          int
	EstimatedTokens int
}

// Store 按用户维护有界的会话窗口，进程内有效，可并发使用
// Store keeps a bounded conversation window per user. It lives for the
// process lifetime and is safe for concurrent use.
type Store struct {
	maxLength int
	tokenizer *Tokenizer

	mu      sync.Mutex
	windows map[string]Window
}

// NewStore creates an empty store. maxLength <= 0 selects MaxContextLength.
func NewStore(maxLength int) *Store {
	if maxLength <= 0 {
		maxLength = MaxContextLength
	}
	return &Store{
		maxLength: maxLength,
		windows:   make(map[string]Window),
	}
}

// WithTokenizer sets the tokenizer used by Stats.
func (s *Store) WithTokenizer(t *Tokenizer) *Store {
	s.tokenizer = t
	return s
}

// MaxLength returns the configured window bound.
func (s *Store) MaxLength() int {
	return s.maxLength
}

// Append 追加一条消息并从最旧处裁剪，至少保留一条
// Append adds turn to the user's window, evicting the oldest turns while the
// window exceeds the bound and more than one turn remains. It returns a copy
// of the resulting window.
func (s *Store) Append(userID string, turn chat.Turn) Window {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := append(s.windows[userID], turn)
	total := w.Length()
	drop := 0
	for total > s.maxLength && len(w)-drop > 1 {
		total -= Length(w[drop].Content)
		drop++
	}
	if drop > 0 {
		w = append(Window(nil), w[drop:]...)
	}
	s.windows[userID] = w
	return append(Window(nil), w...)
}

// Clear drops the user's window. Clearing an unknown user is a no-op.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	delete(s.windows, userID)
	s.mu.Unlock()
}

// Window returns a copy of the user's window and whether one exists.
func (s *Store) Window(userID string) (Window, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[userID]
	if !ok {
		return nil, false
	}
	return append(Window(nil), w...), true
}

// Users returns the number of users with a window.
func (s *Store) Users() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// Stats reports turn count, length and a token estimate for the user's window.
func (s *Store) Stats(userID string) Stats {
	w, _ := s.Window(userID)
	st := Stats{Turns: len(w), Length: w.Length()}
	if s.tokenizer != nil {
		st.EstimatedTokens = s.tokenizer.Count(w)
	}
	return st
}
