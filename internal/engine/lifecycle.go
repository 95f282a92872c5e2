package engine

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/epavlenko/openclaw-youtube/internal/brain"
	"github.com/epavlenko/openclaw-youtube/internal/core/domain"
	"github.com/epavlenko/openclaw-youtube/internal/persona"
)

// processTask runs the per-task state machine.
//
//   - no backend: the item stays pending with no proposal; an external
//     actor completes it using the identity prompt on the scan result.
//   - backend says SKIP: terminal, successful classification. Recorded in
//     the replied-set except in dry-run, which stays side-effect-free.
//   - dry-run / interactive: pending with the generated proposal attached.
//   - auto: pacing delay, post, then mark-and-flush. A post failure leaves
//     the item pending with no state mutation.
func (e *Engine) processTask(ctx context.Context, task domain.ReplyTask, mode domain.ScanMode, ident persona.Persona, log *zap.Logger) domain.ScanItem {
	item := newScanItem(task)

	if e.backend == nil {
		return item
	}

	raw, err := e.backend.Generate(ctx, persona.BuildPrompt(ident, task))
	if err != nil {
		log.Warn("reply generation failed",
			zap.String("comment", task.Comment.ID), zap.Error(err))
		return item
	}

	text, skip := brain.Normalize(raw)
	if skip {
		item.Status = domain.StatusSkipped
		if mode != domain.ModeDryRun {
			e.markHandled(task.Comment.ID, mode == domain.ModeAuto, log)
		}
		log.Info("comment classified as skip", zap.String("comment", task.Comment.ID))
		return item
	}

	item.ProposedReply = &text
	if mode != domain.ModeAuto {
		return item
	}

	e.pace(ctx)
	if ctx.Err() != nil {
		return item
	}
	if err := e.platform.InsertReply(ctx, task.Comment.ID, text); err != nil {
		// Left pending so an external actor (or the next pass) may retry.
		log.Warn("post failed", zap.String("comment", task.Comment.ID), zap.Error(err))
		return item
	}
	e.markHandled(task.Comment.ID, true, log)
	item.Status = domain.StatusPosted
	log.Info("reply posted", zap.String("comment", task.Comment.ID), zap.String("video", task.Video.ID))
	return item
}

// markHandled adds the id to the replied-set; in auto mode it also flushes
// immediately so a crash loses at most one in-flight task.
func (e *Engine) markHandled(commentID string, flushNow bool, log *zap.Logger) {
	if err := e.store.Add(commentID); err != nil {
		log.Warn("failed to record handled comment", zap.String("comment", commentID), zap.Error(err))
		return
	}
	if flushNow {
		if err := e.store.Flush(); err != nil {
			log.Warn("replied-set flush failed", zap.String("comment", commentID), zap.Error(err))
		}
	}
}

// pace waits a uniformly random delay within the configured bounds before
// an automatic post. This is a human-cadence measure, which is also why
// auto mode never posts tasks in parallel.
func (e *Engine) pace(ctx context.Context) {
	lo, hi := e.cfg.ReplyDelayMin, e.cfg.ReplyDelayMax
	if hi < lo {
		hi = lo
	}
	delay := lo
	if hi > lo {
		delay = lo + rand.Intn(hi-lo+1)
	}
	if delay <= 0 {
		return
	}
	select {
	case <-time.After(time.Duration(delay) * time.Second):
	case <-ctx.Done():
	}
}

func newScanItem(task domain.ReplyTask) domain.ScanItem {
	return domain.ScanItem{
		CommentID:        task.Comment.ID,
		VideoID:          task.Video.ID,
		VideoTitle:       task.Video.Title,
		VideoDescription: task.Video.Description,
		Author:           task.Comment.Author,
		Text:             task.Comment.Text,
		IsThread:         len(task.Thread) > 0,
		Thread:           task.Thread,
		Status:           domain.StatusPending,
	}
}
