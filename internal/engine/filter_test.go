package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/epavlenko/openclaw-youtube/internal/core/domain"
)

func TestFilterComments(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	self := NewIdentities(ourChannel, ownerChannel)

	base := func(id string) domain.Comment {
		return domain.Comment{
			ID:              id,
			Text:            "Really enjoyed this one!",
			AuthorChannelID: "UC-viewer",
			PublishedAt:     now.Add(-24 * time.Hour),
		}
	}

	tests := []struct {
		name   string
		mutate func(*domain.Comment)
		opts   FilterOptions
		kept   bool
	}{
		{
			name: "fresh comment passes",
			opts: FilterOptions{MaxAgeDays: 7, MinLength: 4, Self: self, Now: now},
			kept: true,
		},
		{
			name:   "older than max age",
			mutate: func(c *domain.Comment) { c.PublishedAt = now.AddDate(0, 0, -8) },
			opts:   FilterOptions{MaxAgeDays: 7, Self: self, Now: now},
			kept:   false,
		},
		{
			name:   "age filter disabled keeps ancient comments",
			mutate: func(c *domain.Comment) { c.PublishedAt = now.AddDate(-2, 0, 0) },
			opts:   FilterOptions{MaxAgeDays: 0, Self: self, Now: now},
			kept:   true,
		},
		{
			name:   "exactly at the cutoff passes",
			mutate: func(c *domain.Comment) { c.PublishedAt = now.AddDate(0, 0, -7) },
			opts:   FilterOptions{MaxAgeDays: 7, Self: self, Now: now},
			kept:   true,
		},
		{
			name:   "too short after trimming",
			mutate: func(c *domain.Comment) { c.Text = "  ok \n" },
			opts:   FilterOptions{MinLength: 4, Self: self, Now: now},
			kept:   false,
		},
		{
			name:   "length counts runes not bytes",
			mutate: func(c *domain.Comment) { c.Text = "🔥🔥🔥" },
			opts:   FilterOptions{MinLength: 4, Self: self, Now: now},
			kept:   false,
		},
		{
			name:   "four runes meets a min length of four",
			mutate: func(c *domain.Comment) { c.Text = "wow!" },
			opts:   FilterOptions{MinLength: 4, Self: self, Now: now},
			kept:   true,
		},
		{
			name:   "our own comment is excluded",
			mutate: func(c *domain.Comment) { c.AuthorChannelID = ourChannel },
			opts:   FilterOptions{Self: self, Now: now},
			kept:   false,
		},
		{
			name:   "channel owner's comment is excluded",
			mutate: func(c *domain.Comment) { c.AuthorChannelID = ownerChannel },
			opts:   FilterOptions{Self: self, Now: now},
			kept:   false,
		},
		{
			name: "zero options keep everything",
			opts: FilterOptions{Now: now},
			kept: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base("c1")
			if tt.mutate != nil {
				tt.mutate(&c)
			}
			got := FilterComments([]domain.Comment{c}, tt.opts)
			if tt.kept {
				assert.Len(t, got, 1)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestFilterCommentsPreservesOrder(t *testing.T) {
	now := time.Now()
	comments := []domain.Comment{
		{ID: "a", Text: "first comment", AuthorChannelID: "UC-1", PublishedAt: now},
		{ID: "b", Text: "x", AuthorChannelID: "UC-2", PublishedAt: now},
		{ID: "c", Text: "third comment", AuthorChannelID: "UC-3", PublishedAt: now},
	}
	got := FilterComments(comments, FilterOptions{MinLength: 4, Now: now})
	assert.Equal(t, []string{"a", "c"}, []string{got[0].ID, got[1].ID})
}

func TestIdentities(t *testing.T) {
	ids := NewIdentities("UC-a", "", "UC-b")
	assert.True(t, ids.Contains("UC-a"))
	assert.True(t, ids.Contains("UC-b"))
	assert.False(t, ids.Contains("UC-c"))
	assert.False(t, ids.Contains(""), "empty ids never match")
}
