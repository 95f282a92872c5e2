// Package youtube adapts the YouTube Data API v3 to the engine's
// CommentPlatform port.
package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/epavlenko/openclaw-youtube/internal/core/domain"
	"github.com/epavlenko/openclaw-youtube/internal/core/ports"
)

const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

// Client talks to the YouTube Data API. Reads work with either an API key
// or an OAuth session; mutations always need the OAuth session.
type Client struct {
	BaseURL    string
	APIKey     string
	Tokens     ports.TokenSource
	HTTPClient *http.Client

	log *zap.Logger
}

func NewClient(apiKey string, tokens ports.TokenSource, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL:    DefaultBaseURL,
		APIKey:     apiKey,
		Tokens:     tokens,
		HTTPClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

var _ ports.CommentPlatform = (*Client)(nil)

// ListVideos returns the channel's most recent videos, newest first.
func (c *Client) ListVideos(ctx context.Context, channelID string, max int) ([]domain.Video, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("channelId", channelID)
	params.Set("order", "date")
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(max))

	var res searchListResponse
	if err := c.do(ctx, "GET", "/search", params, nil, &res, false); err != nil {
		return nil, err
	}

	videos := make([]domain.Video, 0, len(res.Items))
	for _, item := range res.Items {
		videos = append(videos, domain.Video{
			ID:          item.ID.VideoID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			ChannelID:   item.Snippet.ChannelID,
			PublishedAt: item.Snippet.PublishedAt,
		})
	}
	return videos, nil
}

func (c *Client) GetVideo(ctx context.Context, id string) (domain.Video, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", id)

	var res videoListResponse
	if err := c.do(ctx, "GET", "/videos", params, nil, &res, false); err != nil {
		return domain.Video{}, err
	}
	if len(res.Items) == 0 {
		return domain.Video{}, fmt.Errorf("video %s not found", id)
	}
	item := res.Items[0]
	return domain.Video{
		ID:          item.ID,
		Title:       item.Snippet.Title,
		Description: item.Snippet.Description,
		ChannelID:   item.Snippet.ChannelID,
		PublishedAt: item.Snippet.PublishedAt,
	}, nil
}

// ListComments returns a video's top-level comments in the platform's
// recency order.
func (c *Client) ListComments(ctx context.Context, videoID string, max int) ([]domain.Comment, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("videoId", videoID)
	params.Set("order", "time")
	params.Set("textFormat", "plainText")
	params.Set("maxResults", strconv.Itoa(max))

	var res commentThreadListResponse
	if err := c.do(ctx, "GET", "/commentThreads", params, nil, &res, false); err != nil {
		return nil, err
	}

	comments := make([]domain.Comment, 0, len(res.Items))
	for _, item := range res.Items {
		top := item.Snippet.TopLevelComment
		comments = append(comments, domain.Comment{
			ID:              top.ID,
			VideoID:         item.Snippet.VideoID,
			Text:            top.Snippet.TextDisplay,
			Author:          top.Snippet.AuthorDisplayName,
			AuthorChannelID: top.Snippet.AuthorChannelID.Value,
			PublishedAt:     top.Snippet.PublishedAt,
			ReplyCount:      item.Snippet.TotalReplyCount,
		})
	}
	return comments, nil
}

func (c *Client) GetComment(ctx context.Context, id string) (domain.Comment, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", id)
	params.Set("textFormat", "plainText")

	var res commentListResponse
	if err := c.do(ctx, "GET", "/comments", params, nil, &res, false); err != nil {
		return domain.Comment{}, err
	}
	if len(res.Items) == 0 {
		return domain.Comment{}, fmt.Errorf("comment %s not found", id)
	}
	item := res.Items[0]
	return domain.Comment{
		ID:              item.ID,
		VideoID:         item.Snippet.VideoID,
		Text:            item.Snippet.TextDisplay,
		Author:          item.Snippet.AuthorDisplayName,
		AuthorChannelID: item.Snippet.AuthorChannelID.Value,
		PublishedAt:     item.Snippet.PublishedAt,
	}, nil
}

// ListReplies fetches the thread under a top-level comment. The API does
// not promise an order for replies, so they are sorted oldest first here
// before the engine reasons about who spoke last.
func (c *Client) ListReplies(ctx context.Context, parentID string, max int) ([]domain.ThreadReply, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("parentId", parentID)
	params.Set("textFormat", "plainText")
	params.Set("maxResults", strconv.Itoa(max))

	var res commentListResponse
	if err := c.do(ctx, "GET", "/comments", params, nil, &res, false); err != nil {
		return nil, err
	}

	replies := make([]domain.ThreadReply, 0, len(res.Items))
	for _, item := range res.Items {
		replies = append(replies, domain.ThreadReply{
			Author:          item.Snippet.AuthorDisplayName,
			AuthorChannelID: item.Snippet.AuthorChannelID.Value,
			Text:            item.Snippet.TextDisplay,
			PublishedAt:     item.Snippet.PublishedAt,
		})
	}
	sort.SliceStable(replies, func(i, j int) bool {
		return replies[i].PublishedAt.Before(replies[j].PublishedAt)
	})
	return replies, nil
}

func (c *Client) InsertReply(ctx context.Context, parentID, text string) error {
	params := url.Values{}
	params.Set("part", "snippet")

	var body insertCommentRequest
	body.Snippet.ParentID = parentID
	body.Snippet.TextOriginal = text

	return c.do(ctx, "POST", "/comments", params, &body, nil, true)
}

func (c *Client) DeleteComment(ctx context.Context, id string) error {
	params := url.Values{}
	params.Set("id", id)
	return c.do(ctx, "DELETE", "/comments", params, nil, nil, true)
}

func (c *Client) SetModerationStatus(ctx context.Context, id string, status domain.ModerationStatus, banAuthor bool) error {
	params := url.Values{}
	params.Set("id", id)
	params.Set("moderationStatus", string(status))
	if banAuthor {
		params.Set("banAuthor", "true")
	}
	return c.do(ctx, "POST", "/comments/setModerationStatus", params, nil, nil, true)
}

func (c *Client) GetChannelInfo(ctx context.Context, id string) (domain.ChannelStats, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("id", id)

	var res channelListResponse
	if err := c.do(ctx, "GET", "/channels", params, nil, &res, false); err != nil {
		return domain.ChannelStats{}, err
	}
	if len(res.Items) == 0 {
		return domain.ChannelStats{}, fmt.Errorf("channel %s not found", id)
	}
	item := res.Items[0]
	return domain.ChannelStats{
		ID:          item.ID,
		Title:       item.Snippet.Title,
		Subscribers: parseCount(item.Statistics.SubscriberCount),
		Videos:      parseCount(item.Statistics.VideoCount),
		Views:       parseCount(item.Statistics.ViewCount),
	}, nil
}

// MyChannelID resolves the channel id of the authenticated account, which
// the engine uses as its own identity when matching reply authors.
func (c *Client) MyChannelID(ctx context.Context) (string, error) {
	params := url.Values{}
	params.Set("part", "id")
	params.Set("mine", "true")

	var res channelListResponse
	if err := c.do(ctx, "GET", "/channels", params, nil, &res, true); err != nil {
		return "", err
	}
	if len(res.Items) == 0 {
		return "", fmt.Errorf("authenticated account has no channel")
	}
	return res.Items[0].ID, nil
}

// do issues one API request. Mutations (needAuth) require a bearer token;
// reads use the bearer token when available and fall back to the API key.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any, needAuth bool) error {
	var bearer string
	if c.Tokens != nil {
		token, err := c.Tokens.AccessToken(ctx)
		if err != nil {
			if needAuth {
				return err
			}
			c.log.Debug("no oauth session for read, using api key", zap.Error(err))
		} else {
			bearer = token
		}
	} else if needAuth {
		return fmt.Errorf("operation %s %s requires an authorized session", method, path)
	}
	if bearer == "" && c.APIKey != "" {
		params.Set("key", c.APIKey)
	}

	var reqBody *bytes.Buffer = bytes.NewBuffer(nil)
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path+"?"+params.Encode(), reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error.Message != "" {
			return fmt.Errorf("youtube %s %s: %s (%d)", method, path, apiErr.Error.Message, resp.StatusCode)
		}
		return fmt.Errorf("youtube %s %s: status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func parseCount(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
