package brain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetriable(t *testing.T) {
	assert.True(t, retriable(errors.New("googleapi: Error 429: quota exceeded")))
	assert.True(t, retriable(errors.New("resource exhausted")))
	assert.True(t, retriable(errors.New("RATE LIMIT hit")))
	assert.True(t, retriable(errors.New("model not found")))
	assert.False(t, retriable(errors.New("invalid argument")))
	assert.False(t, retriable(errors.New("permission denied")))
}

func TestModelBudgets(t *testing.T) {
	g := &Gemini{
		dailyCount:   map[string]int{},
		minuteCount:  map[string]int{},
		lastResetDay: time.Now(),
		lastResetMin: time.Now(),
	}
	cfg := modelConfig{Name: "m", RPM: 2, RPD: 3}

	assert.True(t, g.canUseModel(cfg))
	g.recordUsage(cfg)
	g.recordUsage(cfg)
	assert.False(t, g.canUseModel(cfg), "per-minute budget spent")

	// A minute passing clears the RPM counter but not the RPD counter.
	g.lastResetMin = time.Now().Add(-2 * time.Minute)
	assert.True(t, g.canUseModel(cfg))
	g.recordUsage(cfg)
	g.lastResetMin = time.Now().Add(-2 * time.Minute)
	assert.False(t, g.canUseModel(cfg), "per-day budget spent")

	// A day boundary clears everything.
	g.lastResetDay = time.Now().AddDate(0, 0, -1)
	g.lastResetMin = time.Now().Add(-2 * time.Minute)
	assert.True(t, g.canUseModel(cfg))
}
