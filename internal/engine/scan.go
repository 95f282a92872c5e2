package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/epavlenko/openclaw-youtube/internal/core/domain"
)

// scanVideo derives the reply tasks for one video. Read failures are
// isolated here: a video whose comments cannot be listed contributes
// nothing to the worklist and the scan continues.
func (e *Engine) scanVideo(ctx context.Context, video domain.Video) []domain.ReplyTask {
	comments, err := e.platform.ListComments(ctx, video.ID, e.cfg.MaxResults)
	if err != nil {
		e.log.Warn("comment listing failed",
			zap.String("video", video.ID), zap.Error(err))
		return nil
	}

	eligible := FilterComments(comments, FilterOptions{
		MaxAgeDays: e.cfg.MaxAgeDays,
		MinLength:  e.cfg.MinCommentLength,
		Self:       e.ours,
	})

	var tasks []domain.ReplyTask
	for _, c := range eligible {
		// The replied-set suppresses only the new-comment path. A handled
		// comment whose thread grew later is reconsidered via reconciliation.
		if c.ReplyCount == 0 && e.store.Has(c.ID) {
			continue
		}

		decision, err := Reconcile(ctx, c, e.platform.ListReplies, e.ours)
		if err != nil {
			e.log.Warn("thread fetch failed, comment deferred to next scan",
				zap.String("comment", c.ID), zap.Error(err))
			continue
		}
		if decision.State == ThreadSettled {
			continue
		}
		tasks = append(tasks, domain.ReplyTask{Video: video, Comment: c, Thread: decision.Replies})
	}
	return tasks
}

// collectTasks concatenates per-video worklists in video order, keeping
// each video's platform-provided comment order, then applies the limit.
// Truncated tasks stay eligible next scan since nothing was marked handled.
func (e *Engine) collectTasks(ctx context.Context, videos []domain.Video, limit int) []domain.ReplyTask {
	var tasks []domain.ReplyTask
	for _, v := range videos {
		if ctx.Err() != nil {
			break
		}
		tasks = append(tasks, e.scanVideo(ctx, v)...)
	}
	if limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}
	return tasks
}
