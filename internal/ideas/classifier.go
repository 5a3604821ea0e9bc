// Package ideas detects proposal-bearing messages and files them as
// tickets in an external Notion database.
package ideas

import (
	"context"
	"fmt"
	"strings"

	"ideabot/internal/provider"

	"go.uber.org/zap"
)

const classifyMaxTokens = 10

// Completer is the single-prompt half of the backend selector.
type Completer interface {
	CompleteSingle(ctx context.Context, prompt string, opts ...provider.CallOption) (string, error)
}

// Classifier labels a message as idea-bearing or not.
type Classifier struct {
	completer Completer
	logger    *zap.Logger
}

func NewClassifier(completer Completer, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{completer: completer, logger: logger}
}

// ClassifyPrompt builds the fixed yes/no instruction for text.
func ClassifyPrompt(text string) string {
	return fmt.Sprintf(`Does this message contain a new idea or proposal? Respond with only "true" or "false". Message: "%s"`, text)
}

// Classify reports whether text contains a new idea. Backend failures and any
// answer other than a literal "true" yield false, so a broken classifier never
// blocks the reply.
func (c *Classifier) Classify(ctx context.Context, text string) bool {
	if c == nil || c.completer == nil {
		return false
	}
	answer, err := c.completer.CompleteSingle(ctx, ClassifyPrompt(text), provider.WithMaxTokens(classifyMaxTokens))
	if err != nil {
		c.logger.Warn("idea classification failed", zap.Error(err))
		return false
	}
	return strings.ToLower(strings.TrimSpace(answer)) == "true"
}
