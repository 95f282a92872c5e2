// Package engine holds the comment-triage and reply-orchestration core:
// eligibility filtering, thread reconciliation, scan composition, and the
// three-mode reply lifecycle.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/epavlenko/openclaw-youtube/internal/brain"
	"github.com/epavlenko/openclaw-youtube/internal/config"
	"github.com/epavlenko/openclaw-youtube/internal/core/domain"
	"github.com/epavlenko/openclaw-youtube/internal/core/ports"
	"github.com/epavlenko/openclaw-youtube/internal/persona"
)

// ErrScanInProgress is returned when a scan is requested while another is
// still running. Scans are serialized per engine; callers queue or retry.
var ErrScanInProgress = errors.New("a scan is already in progress")

// Engine is one session over one monitored channel. It owns no process
// globals: collaborators come in through the constructor and the caller
// controls the lifetime.
type Engine struct {
	cfg      *config.Config
	platform ports.CommentPlatform
	store    ports.RepliedStore
	backend  ports.ReplyAuthor // nil when no backend is configured
	personas *persona.Library
	log      *zap.Logger
	ours     Identities

	scanMu   sync.Mutex
	statusMu sync.Mutex
	lastScan time.Time
}

// Params collects the collaborators for New. Backend may be nil.
type Params struct {
	Config   *config.Config
	Platform ports.CommentPlatform
	Store    ports.RepliedStore
	Backend  ports.ReplyAuthor
	Personas *persona.Library
	Logger   *zap.Logger
}

func New(p Params) *Engine {
	return &Engine{
		cfg:      p.Config,
		platform: p.Platform,
		store:    p.Store,
		backend:  p.Backend,
		personas: p.Personas,
		log:      p.Logger,
		ours:     NewIdentities(p.Config.BotChannelID, p.Config.ChannelID),
	}
}

// ScanRequest parameterizes one scan invocation.
type ScanRequest struct {
	Mode     domain.ScanMode
	Identity string
	Limit    int
	// VideoID restricts the scan to a single video.
	VideoID string
}

// Scan runs the full pipeline: resolve videos, filter and reconcile their
// comments into a worklist, then push every task through the lifecycle
// controller under the requested mode.
func (e *Engine) Scan(ctx context.Context, req ScanRequest) (*domain.ScanResult, error) {
	if !e.scanMu.TryLock() {
		return nil, ErrScanInProgress
	}
	defer e.scanMu.Unlock()

	ident, err := e.personas.Get(req.Identity)
	if err != nil {
		return nil, err
	}

	videos, err := e.resolveVideos(ctx, req.VideoID)
	if err != nil {
		return nil, err
	}

	tasks := e.collectTasks(ctx, videos, req.Limit)

	result := &domain.ScanResult{
		ScanID:   uuid.NewString(),
		Identity: ident.Name,
		Found:    len(tasks),
		Items:    []domain.ScanItem{},
	}
	if e.backend == nil {
		result.IdentityPrompt = ident.System
	}

	log := e.log.With(zap.String("scan_id", result.ScanID), zap.String("mode", string(req.Mode)))
	log.Info("scan worklist assembled", zap.Int("tasks", len(tasks)), zap.Int("videos", len(videos)))

	for _, task := range tasks {
		// A scan may be aborted between tasks; unprocessed tasks stay
		// eligible for the next scan.
		if ctx.Err() != nil {
			break
		}
		result.Items = append(result.Items, e.processTask(ctx, task, req.Mode, ident, log))
	}

	if req.Mode == domain.ModeInteractive {
		// One flush covers the skip markers accumulated during the scan.
		if err := e.store.Flush(); err != nil {
			log.Warn("replied-set flush failed", zap.Error(err))
		}
	}

	e.statusMu.Lock()
	e.lastScan = time.Now()
	e.statusMu.Unlock()
	return result, nil
}

// resolveVideos turns the request plus config into the set of videos to
// scan. A failed lookup of one explicitly configured video is isolated;
// failing to list the channel at all is an error for the caller.
func (e *Engine) resolveVideos(ctx context.Context, videoID string) ([]domain.Video, error) {
	if videoID != "" {
		v, err := e.platform.GetVideo(ctx, videoID)
		if err != nil {
			return nil, fmt.Errorf("get video %s: %w", videoID, err)
		}
		return []domain.Video{v}, nil
	}

	if len(e.cfg.VideoIDs) > 0 {
		var videos []domain.Video
		for _, id := range e.cfg.VideoIDs {
			v, err := e.platform.GetVideo(ctx, id)
			if err != nil {
				e.log.Warn("video lookup failed", zap.String("video", id), zap.Error(err))
				continue
			}
			videos = append(videos, v)
		}
		return videos, nil
	}

	videos, err := e.platform.ListVideos(ctx, e.cfg.ChannelID, e.cfg.MaxVideos)
	if err != nil {
		return nil, fmt.Errorf("list videos for channel %s: %w", e.cfg.ChannelID, err)
	}
	return videos, nil
}

// Regenerate builds a fresh proposal for a single comment without touching
// any durable state.
func (e *Engine) Regenerate(ctx context.Context, commentID, identity string) (*domain.Proposal, error) {
	ident, err := e.personas.Get(identity)
	if err != nil {
		return nil, err
	}

	comment, err := e.platform.GetComment(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("get comment %s: %w", commentID, err)
	}

	task := domain.ReplyTask{Comment: comment}
	if comment.VideoID != "" {
		if v, err := e.platform.GetVideo(ctx, comment.VideoID); err == nil {
			task.Video = v
		}
	}
	if comment.ReplyCount > 0 {
		if replies, err := e.platform.ListReplies(ctx, commentID, maxThreadReplies); err == nil {
			for i := range replies {
				replies[i].IsOurs = e.ours.Contains(replies[i].AuthorChannelID)
			}
			task.Thread = replies
		}
	}

	prompt := persona.BuildPrompt(ident, task)
	proposal := &domain.Proposal{Prompt: prompt}
	if e.backend == nil {
		return proposal, nil
	}

	raw, err := e.backend.Generate(ctx, prompt)
	if err != nil {
		e.log.Warn("regenerate failed", zap.String("comment", commentID), zap.Error(err))
		return proposal, nil
	}
	text, skip := brain.Normalize(raw)
	if skip {
		proposal.Skip = true
		return proposal, nil
	}
	proposal.Reply = &text
	return proposal, nil
}

// PostReply posts text under a comment and records the comment as handled.
// A post failure is surfaced as an error with no state mutation.
func (e *Engine) PostReply(ctx context.Context, commentID, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("reply text is empty")
	}
	if err := e.platform.InsertReply(ctx, commentID, text); err != nil {
		return fmt.Errorf("post reply to %s: %w", commentID, err)
	}
	if err := e.store.Add(commentID); err != nil {
		e.log.Warn("failed to record replied comment", zap.String("comment", commentID), zap.Error(err))
	}
	return e.store.Flush()
}

// Status reports the replied-set size, the last scan time, and the
// available identities. Channel stats are best-effort.
func (e *Engine) Status(ctx context.Context) *domain.EngineStatus {
	e.statusMu.Lock()
	last := e.lastScan
	e.statusMu.Unlock()

	st := &domain.EngineStatus{
		RepliedTotal:        e.store.Len(),
		LastScanTime:        last,
		AvailableIdentities: e.personas.Names(),
	}
	if e.cfg.ChannelID != "" {
		if ch, err := e.platform.GetChannelInfo(ctx, e.cfg.ChannelID); err == nil {
			st.Channel = &ch
		} else {
			e.log.Warn("channel info unavailable", zap.Error(err))
		}
	}
	return st
}
