package brain

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/epavlenko/openclaw-youtube/internal/core/ports"
)

type modelConfig struct {
	Name string
	RPM  int
	RPD  int
}

// Gemini is the direct generation backend. It walks a fallback chain of
// models, skipping any whose per-minute or per-day budget is spent and any
// that answer with a rate-limit style error.
type Gemini struct {
	Client *genai.Client
	Models []modelConfig

	dailyCount   map[string]int
	minuteCount  map[string]int
	lastResetDay time.Time
	lastResetMin time.Time
	mu           sync.Mutex
}

func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, err
	}

	return &Gemini{
		Client: client,
		Models: []modelConfig{
			{Name: "gemini-2.5-flash", RPM: 10, RPD: 250},
			{Name: "gemini-2.5-flash-lite", RPM: 15, RPD: 1000},
		},
		dailyCount:   make(map[string]int),
		minuteCount:  make(map[string]int),
		lastResetDay: time.Now(),
		lastResetMin: time.Now(),
	}, nil
}

var _ ports.ReplyAuthor = (*Gemini)(nil)

func (g *Gemini) Name() string { return string(KindGemini) }

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for _, cfg := range g.Models {
		if !g.canUseModel(cfg) {
			continue
		}

		result, err := g.Client.Models.GenerateContent(ctx, cfg.Name, genai.Text(prompt), nil)
		if err != nil {
			if retriable(err) {
				lastErr = err
				continue
			}
			return "", err
		}

		if result != nil && len(result.Candidates) > 0 && len(result.Candidates[0].Content.Parts) > 0 {
			g.recordUsage(cfg)
			return result.Candidates[0].Content.Parts[0].Text, nil
		}
		lastErr = fmt.Errorf("model %s returned no candidates", cfg.Name)
	}

	return "", fmt.Errorf("all models exhausted: %w", lastErr)
}

func retriable(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "429") || strings.Contains(s, "rate limit") ||
		strings.Contains(s, "exhausted") || strings.Contains(s, "404") ||
		strings.Contains(s, "not found")
}

func (g *Gemini) canUseModel(cfg modelConfig) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := time.Now()
	if now.YearDay() != g.lastResetDay.YearDay() {
		g.dailyCount = make(map[string]int)
		g.lastResetDay = now
	}
	if now.Sub(g.lastResetMin) >= time.Minute {
		g.minuteCount = make(map[string]int)
		g.lastResetMin = now
	}
	if g.dailyCount[cfg.Name] >= cfg.RPD {
		return false
	}
	if g.minuteCount[cfg.Name] >= cfg.RPM {
		return false
	}
	return true
}

func (g *Gemini) recordUsage(cfg modelConfig) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dailyCount[cfg.Name]++
	g.minuteCount[cfg.Name]++
}
