package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epavlenko/openclaw-youtube/internal/core/domain"
)

func staticFetcher(replies []domain.ThreadReply, err error) RepliesFetcher {
	return func(ctx context.Context, parentID string, max int) ([]domain.ThreadReply, error) {
		return replies, err
	}
}

func reply(channelID string, at time.Time) domain.ThreadReply {
	return domain.ThreadReply{Author: channelID, AuthorChannelID: channelID, PublishedAt: at}
}

func TestReconcileNoReplies(t *testing.T) {
	ours := NewIdentities(ourChannel)
	fetchCalled := false
	fetch := func(ctx context.Context, parentID string, max int) ([]domain.ThreadReply, error) {
		fetchCalled = true
		return nil, nil
	}

	decision, err := Reconcile(context.Background(), domain.Comment{ID: "c1", ReplyCount: 0}, fetch, ours)
	require.NoError(t, err)
	assert.Equal(t, ThreadNone, decision.State)
	assert.False(t, fetchCalled, "no thread fetch when the reply count is zero")
}

func TestReconcileStaleReplyCount(t *testing.T) {
	ours := NewIdentities(ourChannel)
	decision, err := Reconcile(context.Background(),
		domain.Comment{ID: "c1", ReplyCount: 2}, staticFetcher(nil, nil), ours)
	require.NoError(t, err)
	assert.Equal(t, ThreadNone, decision.State)
}

func TestReconcileFetchErrorPropagates(t *testing.T) {
	ours := NewIdentities(ourChannel)
	boom := errors.New("quota")
	_, err := Reconcile(context.Background(),
		domain.Comment{ID: "c1", ReplyCount: 1}, staticFetcher(nil, boom), ours)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestReconcileOursLastIsSettled(t *testing.T) {
	ours := NewIdentities(ourChannel)
	now := time.Now()
	replies := []domain.ThreadReply{
		reply("UC-viewer", now.Add(-2*time.Hour)),
		reply(ourChannel, now.Add(-time.Hour)),
	}

	decision, err := Reconcile(context.Background(),
		domain.Comment{ID: "c2", ReplyCount: 2}, staticFetcher(replies, nil), ours)
	require.NoError(t, err)
	assert.Equal(t, ThreadSettled, decision.State)
	assert.Empty(t, decision.Replies)
}

func TestReconcileThirdPartyLastIsActive(t *testing.T) {
	ours := NewIdentities(ourChannel)
	now := time.Now()
	replies := []domain.ThreadReply{
		reply(ourChannel, now.Add(-2*time.Hour)),
		reply("UC-viewer", now.Add(-time.Hour)),
	}

	decision, err := Reconcile(context.Background(),
		domain.Comment{ID: "c3", ReplyCount: 2}, staticFetcher(replies, nil), ours)
	require.NoError(t, err)
	assert.Equal(t, ThreadActive, decision.State)
	require.Len(t, decision.Replies, 2)
	assert.True(t, decision.Replies[0].IsOurs)
	assert.False(t, decision.Replies[1].IsOurs)
}

func TestReconcileOnlyLastPositionMatters(t *testing.T) {
	// We replied earlier in the thread, but a third party has the last
	// word: the thread is active again.
	ours := NewIdentities(ourChannel)
	now := time.Now()
	replies := []domain.ThreadReply{
		reply("UC-a", now.Add(-3*time.Hour)),
		reply(ourChannel, now.Add(-2*time.Hour)),
		reply("UC-b", now.Add(-time.Hour)),
	}

	decision, err := Reconcile(context.Background(),
		domain.Comment{ID: "c4", ReplyCount: 3}, staticFetcher(replies, nil), ours)
	require.NoError(t, err)
	assert.Equal(t, ThreadActive, decision.State)
}
