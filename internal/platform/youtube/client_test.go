package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) AccessToken(ctx context.Context) (string, error) {
	return s.token, s.err
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-api-key", nil, 5*time.Second, zap.NewNop())
	c.BaseURL = srv.URL
	return c, srv
}

func TestListCommentsParsesThreads(t *testing.T) {
	var gotQuery map[string]string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/commentThreads", r.URL.Path)
		gotQuery = flatten(r)
		fmt.Fprint(w, `{
			"items": [{
				"id": "thread-1",
				"snippet": {
					"videoId": "v1",
					"totalReplyCount": 2,
					"topLevelComment": {
						"id": "c1",
						"snippet": {
							"videoId": "v1",
							"textDisplay": "Great video!",
							"authorDisplayName": "viewer",
							"authorChannelId": {"value": "UC-viewer"},
							"publishedAt": "2026-08-19T08:00:00Z"
						}
					}
				}
			}]
		}`)
	}))

	comments, err := c.ListComments(context.Background(), "v1", 50)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	got := comments[0]
	assert.Equal(t, "c1", got.ID)
	assert.Equal(t, "v1", got.VideoID)
	assert.Equal(t, "Great video!", got.Text)
	assert.Equal(t, "viewer", got.Author)
	assert.Equal(t, "UC-viewer", got.AuthorChannelID)
	assert.Equal(t, int64(2), got.ReplyCount)

	assert.Equal(t, "time", gotQuery["order"])
	assert.Equal(t, "plainText", gotQuery["textFormat"])
	assert.Equal(t, "test-api-key", gotQuery["key"])
}

func TestListRepliesSortsOldestFirst(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/comments", r.URL.Path)
		require.Equal(t, "c1", r.URL.Query().Get("parentId"))
		fmt.Fprint(w, `{
			"items": [
				{"id": "r2", "snippet": {"authorDisplayName": "b", "authorChannelId": {"value": "UC-b"}, "textDisplay": "second", "publishedAt": "2026-08-19T10:00:00Z"}},
				{"id": "r1", "snippet": {"authorDisplayName": "a", "authorChannelId": {"value": "UC-a"}, "textDisplay": "first", "publishedAt": "2026-08-19T08:00:00Z"}}
			]
		}`)
	}))

	replies, err := c.ListReplies(context.Background(), "c1", 100)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, "first", replies[0].Text)
	assert.Equal(t, "second", replies[1].Text)
	assert.True(t, replies[0].PublishedAt.Before(replies[1].PublishedAt))
}

func TestInsertReplyRequiresAuth(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request may be sent without a session")
	}))

	err := c.InsertReply(context.Background(), "c1", "hi")
	assert.Error(t, err)
}

func TestInsertReplySendsBearerAndBody(t *testing.T) {
	var gotAuth string
	var gotBody insertCommentRequest
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/comments", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{}`)
	}))
	c.Tokens = staticTokens{token: "ya29.test"}

	require.NoError(t, c.InsertReply(context.Background(), "c1", "Thanks!"))
	assert.Equal(t, "Bearer ya29.test", gotAuth)
	assert.Equal(t, "c1", gotBody.Snippet.ParentID)
	assert.Equal(t, "Thanks!", gotBody.Snippet.TextOriginal)
}

func TestAuthErrorPropagatesOnMutation(t *testing.T) {
	sentinel := errors.New("session gone")
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request may be sent without a session")
	}))
	c.Tokens = staticTokens{err: sentinel}

	err := c.InsertReply(context.Background(), "c1", "hi")
	assert.ErrorIs(t, err, sentinel)
}

func TestReadFallsBackToAPIKey(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "test-api-key", r.URL.Query().Get("key"))
		fmt.Fprint(w, `{"items": []}`)
	}))
	c.Tokens = staticTokens{err: errors.New("no session")}

	_, err := c.ListComments(context.Background(), "v1", 50)
	assert.NoError(t, err)
}

func TestAPIErrorMessageSurfaced(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": {"code": 403, "message": "quotaExceeded"}}`)
	}))

	_, err := c.ListComments(context.Background(), "v1", 50)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quotaExceeded")
	assert.Contains(t, err.Error(), "403")
}

func TestGetVideoNotFound(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": []}`)
	}))

	_, err := c.GetVideo(context.Background(), "missing")
	assert.Error(t, err)
}

func TestGetChannelInfoParsesStringCounters(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/channels", r.URL.Path)
		fmt.Fprint(w, `{
			"items": [{
				"id": "UC-owner",
				"snippet": {"title": "My Channel"},
				"statistics": {"subscriberCount": "12345", "videoCount": "67", "viewCount": "890123"}
			}]
		}`)
	}))

	stats, err := c.GetChannelInfo(context.Background(), "UC-owner")
	require.NoError(t, err)
	assert.Equal(t, "My Channel", stats.Title)
	assert.Equal(t, int64(12345), stats.Subscribers)
	assert.Equal(t, int64(67), stats.Videos)
	assert.Equal(t, int64(890123), stats.Views)
}

func flatten(r *http.Request) map[string]string {
	out := make(map[string]string)
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
