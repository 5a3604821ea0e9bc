package contextmgr

import (
	"strings"
	"sync"

	"ideabot/internal/chat"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Tokenizer 精确 token 计数器，支持 tiktoken 和启发式回退
// Tokenizer provides token counting with tiktoken and a heuristic fallback
type Tokenizer struct {
	encoder      *tiktoken.Tiktoken
	encodingName string
	fallback     bool
	mu           sync.RWMutex
}

// NewTokenizer 创建 tokenizer，如果 tiktoken 初始化失败则回退到启发式
// NewTokenizer creates a tokenizer, falls back to heuristic if tiktoken init fails
func NewTokenizer(encodingName string) *Tokenizer {
	t := &Tokenizer{encodingName: encodingName}

	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		// 离线环境可能没有 BPE 缓存，回退到启发式
		// Offline environments may lack the BPE cache
		t.fallback = true
		return t
	}
	t.encoder = enc
	return t
}

// NewTokenizerForModel 根据模型名自动选择编码
// NewTokenizerForModel picks the encoding from the model name
func NewTokenizerForModel(model string) *Tokenizer {
	return NewTokenizer(modelToEncoding(model))
}

// Count returns the estimated token count of a window.
func (t *Tokenizer) Count(turns []chat.Turn) int {
	total := 0
	for _, turn := range turns {
		// ~4 tokens of per-message framing
		total += 4 + t.CountText(string(turn.Role)) + t.CountText(turn.Content)
	}
	return total
}

// CountText counts tokens for a single text string.
func (t *Tokenizer) CountText(text string) int {
	if text == "" {
		return 0
	}
	if t.fallback {
		return heuristicTokenCount(text)
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.encoder.Encode(text, nil, nil))
}

// IsPrecise reports whether tiktoken is in use.
func (t *Tokenizer) IsPrecise() bool {
	return !t.fallback
}

func (t *Tokenizer) EncodingName() string {
	return t.encodingName
}

// heuristicTokenCount CJK 约 1.5 token/字，其余约 4 字符/token
// heuristicTokenCount estimates ~1.5 tokens per CJK rune and ~4 chars per token otherwise
func heuristicTokenCount(text string) int {
	if text == "" {
		return 0
	}
	cjk, other := 0, 0
	for _, r := range text {
		if isCJK(r) {
			cjk++
		} else {
			other++
		}
	}
	estimate := int(float64(cjk)*1.5 + float64(other)*0.25)
	if estimate < 1 {
		estimate = 1
	}
	return estimate
}

func isCJK(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) ||
		(r >= 0x3400 && r <= 0x4DBF) ||
		(r >= 0x3000 && r <= 0x303F) ||
		(r >= 0xFF00 && r <= 0xFFEF) ||
		(r >= 0xAC00 && r <= 0xD7AF)
}

func modelToEncoding(model string) string {
	m := strings.ToLower(strings.TrimSpace(model))
	switch {
	case strings.HasPrefix(m, "o1"), strings.HasPrefix(m, "o3"):
		return "o200k_base"
	case strings.HasPrefix(m, "gpt-4o"), strings.HasPrefix(m, "chatgpt-4o"):
		return "o200k_base"
	case strings.HasPrefix(m, "gpt-3.5"), strings.HasPrefix(m, "gpt-4"):
		return "cl100k_base"
	case strings.HasPrefix(m, "claude"):
		// no public BPE for claude; cl100k is close enough for a log estimate
		return "cl100k_base"
	default:
		return "cl100k_base"
	}
}
