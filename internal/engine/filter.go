package engine

import (
	"strings"
	"time"

	"github.com/epavlenko/openclaw-youtube/internal/core/domain"
)

// Identities is the set of channel ids the engine treats as itself:
// the replying account and, when known, the monitored channel owner.
type Identities map[string]struct{}

func NewIdentities(ids ...string) Identities {
	set := make(Identities, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

func (s Identities) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// FilterOptions are the per-scan eligibility thresholds.
type FilterOptions struct {
	MaxAgeDays int
	MinLength  int
	Self       Identities
	Now        time.Time
}

// FilterComments applies the age, minimum-length, and self-authorship
// predicates to raw top-level comments. All three are independent; age is
// checked first because it is the cheapest way to drop stale items.
func FilterComments(comments []domain.Comment, opts FilterOptions) []domain.Comment {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	cutoff := now.AddDate(0, 0, -opts.MaxAgeDays)

	var eligible []domain.Comment
	for _, c := range comments {
		if opts.MaxAgeDays > 0 && c.PublishedAt.Before(cutoff) {
			continue
		}
		// Rune count, not bytes: a single emoji reaction is one character.
		if len([]rune(strings.TrimSpace(c.Text))) < opts.MinLength {
			continue
		}
		if opts.Self.Contains(c.AuthorChannelID) {
			continue
		}
		eligible = append(eligible, c)
	}
	return eligible
}
