package engine

import (
	"context"
	"fmt"

	"github.com/epavlenko/openclaw-youtube/internal/core/domain"
)

// ThreadState is the three-way outcome of reconciling a comment against
// its reply thread.
type ThreadState int

const (
	// ThreadNone: the comment has no replies; this is the new-comment path.
	ThreadNone ThreadState = iota
	// ThreadSettled: our identity holds the chronologically last reply;
	// nothing to do.
	ThreadSettled
	// ThreadActive: a third party spoke after us; the thread-continuation
	// path, with the full snapshot attached.
	ThreadActive
)

// ThreadDecision carries the state and, for ThreadActive, the thread
// snapshot with IsOurs resolved per reply.
type ThreadDecision struct {
	State   ThreadState
	Replies []domain.ThreadReply
}

// RepliesFetcher fetches the reply thread under a top-level comment,
// oldest first.
type RepliesFetcher func(ctx context.Context, parentID string, max int) ([]domain.ThreadReply, error)

const maxThreadReplies = 100

// Reconcile decides whether a comment with (or without) an existing thread
// still owes a reply. A fetch failure is returned to the caller, which
// treats it as "skip this comment for this scan" and never persists it.
//
// Only the position of the last reply in the ordered sequence matters. If
// we already hold the last word the thread is settled, which prevents the
// engine from ever replying to its own output.
func Reconcile(ctx context.Context, comment domain.Comment, fetch RepliesFetcher, ours Identities) (ThreadDecision, error) {
	if comment.ReplyCount == 0 {
		return ThreadDecision{State: ThreadNone}, nil
	}

	replies, err := fetch(ctx, comment.ID, maxThreadReplies)
	if err != nil {
		return ThreadDecision{}, fmt.Errorf("fetch replies for %s: %w", comment.ID, err)
	}
	// Reply count can be stale; an empty thread is the new-comment path.
	if len(replies) == 0 {
		return ThreadDecision{State: ThreadNone}, nil
	}

	last := replies[len(replies)-1]
	if ours.Contains(last.AuthorChannelID) {
		return ThreadDecision{State: ThreadSettled}, nil
	}

	for i := range replies {
		replies[i].IsOurs = ours.Contains(replies[i].AuthorChannelID)
	}
	return ThreadDecision{State: ThreadActive, Replies: replies}, nil
}
