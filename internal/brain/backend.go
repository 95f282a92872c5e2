// Package brain provides the reply-generation backends and the
// post-processing applied to whatever they return.
package brain

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/epavlenko/openclaw-youtube/internal/config"
	"github.com/epavlenko/openclaw-youtube/internal/core/ports"
)

// Kind names the selected backend variant.
type Kind string

const (
	KindGemini  Kind = "gemini"
	KindCommand Kind = "command"
	KindNone    Kind = "none"
)

// Select picks the backend by configuration presence, in fixed priority:
// a direct Gemini API key wins, then a host-provided model command, else
// none — generation is deferred entirely to an external actor.
func Select(ctx context.Context, cfg *config.Config, log *zap.Logger) (ports.ReplyAuthor, Kind, error) {
	switch {
	case cfg.GeminiAPIKey != "":
		b, err := NewGemini(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, KindNone, err
		}
		log.Info("reply backend selected", zap.String("kind", string(KindGemini)))
		return b, KindGemini, nil
	case cfg.HostCommand != "":
		log.Info("reply backend selected", zap.String("kind", string(KindCommand)))
		return NewCommand(cfg.HostCommand, cfg.GenerateTimeout), KindCommand, nil
	default:
		log.Info("no reply backend configured")
		return nil, KindNone, nil
	}
}

// SkipSentinel is what a backend (or operator) answers when a comment
// warrants no reply. Matching is case- and whitespace-insensitive.
const SkipSentinel = "SKIP"

// Normalize post-processes raw backend output. It trims whitespace, strips
// exactly one layer of wrapping double quotes (only when both the first and
// last character are a double quote; interior quotes and single-quote
// wrapping are untouched), and classifies the skip sentinel.
func Normalize(raw string) (text string, skip bool) {
	text = strings.TrimSpace(raw)
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	if strings.ToUpper(strings.TrimSpace(text)) == SkipSentinel {
		return "", true
	}
	return text, false
}
