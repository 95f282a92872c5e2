package domain

import "time"

// Video is a monitored video on the platform.
type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ChannelID   string    `json:"channel_id"`
	PublishedAt time.Time `json:"published_at"`
}

// Comment is a top-level comment as fetched from the platform.
// Immutable after fetch; the engine never mutates it.
type Comment struct {
	ID              string    `json:"id"`
	VideoID         string    `json:"video_id"`
	Text            string    `json:"text"`
	Author          string    `json:"author"`
	AuthorChannelID string    `json:"author_channel_id"`
	PublishedAt     time.Time `json:"published_at"`
	ReplyCount      int64     `json:"reply_count"`
}

// ThreadReply is one reply in a comment thread, oldest first.
type ThreadReply struct {
	Author          string    `json:"author"`
	AuthorChannelID string    `json:"author_channel_id"`
	Text            string    `json:"text"`
	PublishedAt     time.Time `json:"published_at"`
	IsOurs          bool      `json:"is_ours"`
}

// ReplyTask is one unit of scan work: a comment plus the thread slice
// that made it actionable. Scoped to a single scan.
type ReplyTask struct {
	Video   Video
	Comment Comment
	Thread  []ThreadReply
}

// ScanMode selects how the lifecycle controller disposes of each task.
type ScanMode string

const (
	ModeDryRun      ScanMode = "dry-run"
	ModeInteractive ScanMode = "interactive"
	ModeAuto        ScanMode = "auto"
)

// ItemStatus is the terminal state of one ScanItem within a scan.
type ItemStatus string

const (
	StatusPending ItemStatus = "pending"
	StatusPosted  ItemStatus = "posted"
	StatusSkipped ItemStatus = "skipped"
)

// ModerationStatus mirrors the platform's comment moderation states.
type ModerationStatus string

const (
	ModerationPublished     ModerationStatus = "published"
	ModerationHeldForReview ModerationStatus = "heldForReview"
	ModerationRejected      ModerationStatus = "rejected"
)

// ScanItem is the externally visible outcome for one ReplyTask.
type ScanItem struct {
	CommentID        string        `json:"comment_id"`
	VideoID          string        `json:"video_id"`
	VideoTitle       string        `json:"video_title"`
	VideoDescription string        `json:"video_description,omitempty"`
	Author           string        `json:"author"`
	Text             string        `json:"text"`
	IsThread         bool          `json:"is_thread"`
	Thread           []ThreadReply `json:"thread,omitempty"`
	ProposedReply    *string       `json:"proposed_reply"`
	Status           ItemStatus    `json:"status"`
}

// ScanResult is what one scan invocation hands back to the caller.
type ScanResult struct {
	ScanID         string     `json:"scan_id"`
	Identity       string     `json:"identity"`
	IdentityPrompt string     `json:"identity_prompt,omitempty"`
	Found          int        `json:"found"`
	Items          []ScanItem `json:"items"`
}

// Proposal is the result of regenerating a reply for a single comment.
type Proposal struct {
	Reply  *string `json:"proposed_reply"`
	Prompt string  `json:"prompt,omitempty"`
	Skip   bool    `json:"skip,omitempty"`
}

// ChannelStats is a summary of the monitored channel.
type ChannelStats struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subscribers int64  `json:"subscribers"`
	Videos      int64  `json:"videos"`
	Views       int64  `json:"views"`
}

// EngineStatus is the status() surface exposed to callers.
type EngineStatus struct {
	RepliedTotal        int           `json:"replied_total"`
	LastScanTime        time.Time     `json:"last_scan_time"`
	AvailableIdentities []string      `json:"available_identities"`
	Channel             *ChannelStats `json:"channel,omitempty"`
}
