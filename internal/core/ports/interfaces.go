package ports

import (
	"context"
	"time"

	"github.com/epavlenko/openclaw-youtube/internal/core/domain"
)

// CommentPlatform is the video/comment query-and-mutation API the engine
// operates against. Reads may fail per unit without failing a scan; the
// engine isolates those failures.
type CommentPlatform interface {
	ListVideos(ctx context.Context, channelID string, max int) ([]domain.Video, error)
	GetVideo(ctx context.Context, id string) (domain.Video, error)
	ListComments(ctx context.Context, videoID string, max int) ([]domain.Comment, error)
	GetComment(ctx context.Context, id string) (domain.Comment, error)
	// ListReplies returns the thread under a top-level comment, oldest first.
	ListReplies(ctx context.Context, parentID string, max int) ([]domain.ThreadReply, error)
	InsertReply(ctx context.Context, parentID, text string) error
	DeleteComment(ctx context.Context, id string) error
	SetModerationStatus(ctx context.Context, id string, status domain.ModerationStatus, banAuthor bool) error
	GetChannelInfo(ctx context.Context, id string) (domain.ChannelStats, error)
}

// ReplyAuthor turns a prompt into reply text. Implementations may fail;
// a failed generation degrades a single task, never a whole scan.
type ReplyAuthor interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// RepliedStore is the durable set of comment ids already handled.
// Add records in memory (or immediately, for stores that are always
// durable); Flush makes pending additions survive a crash.
type RepliedStore interface {
	Has(id string) bool
	Add(id string) error
	Flush() error
	Reload() error
	IDs() []string
	Len() int
	UpdatedAt() time.Time
}

// TokenSource supplies a bearer token for authenticated platform calls.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

type UserAction string

const (
	ActionApprove    UserAction = "approve"
	ActionRegenerate UserAction = "regenerate"
	ActionSkip       UserAction = "skip"
)

// Interaction is the one-by-one approval surface used in interactive mode.
type Interaction interface {
	Confirm(ctx context.Context, title, body string) (UserAction, error)
}
