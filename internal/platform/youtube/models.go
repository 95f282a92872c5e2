package youtube

import "time"

// Wire shapes for the YouTube Data API v3, limited to the fields the
// engine consumes.

type commentSnippet struct {
	VideoID           string `json:"videoId"`
	TextDisplay       string `json:"textDisplay"`
	AuthorDisplayName string `json:"authorDisplayName"`
	AuthorChannelID   struct {
		Value string `json:"value"`
	} `json:"authorChannelId"`
	PublishedAt time.Time `json:"publishedAt"`
}

type apiComment struct {
	ID      string         `json:"id"`
	Snippet commentSnippet `json:"snippet"`
}

type commentListResponse struct {
	Items         []apiComment `json:"items"`
	NextPageToken string       `json:"nextPageToken"`
}

type apiCommentThread struct {
	ID      string `json:"id"`
	Snippet struct {
		VideoID         string     `json:"videoId"`
		TotalReplyCount int64      `json:"totalReplyCount"`
		TopLevelComment apiComment `json:"topLevelComment"`
	} `json:"snippet"`
}

type commentThreadListResponse struct {
	Items         []apiCommentThread `json:"items"`
	NextPageToken string             `json:"nextPageToken"`
}

type videoSnippet struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ChannelID   string    `json:"channelId"`
	PublishedAt time.Time `json:"publishedAt"`
}

type videoListResponse struct {
	Items []struct {
		ID      string       `json:"id"`
		Snippet videoSnippet `json:"snippet"`
	} `json:"items"`
}

type searchListResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet videoSnippet `json:"snippet"`
	} `json:"items"`
}

type channelListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title string `json:"title"`
		} `json:"snippet"`
		// Statistics counters arrive as decimal strings.
		Statistics struct {
			SubscriberCount string `json:"subscriberCount"`
			VideoCount      string `json:"videoCount"`
			ViewCount       string `json:"viewCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type insertCommentRequest struct {
	Snippet struct {
		ParentID     string `json:"parentId"`
		TextOriginal string `json:"textOriginal"`
	} `json:"snippet"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
