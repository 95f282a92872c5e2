package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/epavlenko/openclaw-youtube/internal/auth"
	"github.com/epavlenko/openclaw-youtube/internal/core/domain"
	"github.com/epavlenko/openclaw-youtube/internal/core/ports"
	"github.com/epavlenko/openclaw-youtube/internal/engine"
	"github.com/epavlenko/openclaw-youtube/internal/poller"
)

func newRunCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Watch the channel and process new comments on an interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			scanMode, err := parseMode(mode)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}

			go a.personas.Watch(ctx)

			p := poller.New(a.cfg.PollInterval, func(ctx context.Context) {
				a.cycle(ctx, scanMode)
			}, a.log)

			// A newline on stdin forces an immediate cycle.
			go func() {
				reader := bufio.NewReader(os.Stdin)
				for {
					if _, err := reader.ReadString('\n'); err != nil {
						return
					}
					p.Trigger()
				}
			}()

			p.Run(ctx)
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(domain.ModeInteractive), "dry-run, interactive, or auto")
	return cmd
}

func (a *app) cycle(ctx context.Context, mode domain.ScanMode) {
	result, err := a.engine.Scan(ctx, engine.ScanRequest{Mode: mode, Identity: a.cfg.Identity})
	if err != nil {
		var authErr *auth.AuthorizationRequiredError
		if errors.As(err, &authErr) {
			a.log.Warn("authorization required", zap.String("auth_url", authErr.AuthURL))
			return
		}
		a.log.Error("scan failed", zap.Error(err))
		return
	}

	a.log.Info("scan finished",
		zap.String("scan_id", result.ScanID),
		zap.Int("found", result.Found),
		zap.Int("posted", countStatus(result, domain.StatusPosted)),
		zap.Int("skipped", countStatus(result, domain.StatusSkipped)))

	if mode == domain.ModeInteractive && a.ui != nil {
		a.review(ctx, result)
	}
}

// review walks the pending proposals one by one through the approval UI.
func (a *app) review(ctx context.Context, result *domain.ScanResult) {
	for _, item := range result.Items {
		if ctx.Err() != nil {
			return
		}
		if item.Status != domain.StatusPending || item.ProposedReply == nil {
			continue
		}

		proposed := *item.ProposedReply
		for {
			title := fmt.Sprintf("Reply to %s", item.Author)
			kind := "New comment"
			if item.IsThread {
				kind = "Thread continuation"
			}
			body := fmt.Sprintf("📍 %s\n%s\n\n💬 %s\n\n🤖 %s", item.VideoTitle, kind, item.Text, proposed)

			action, err := a.ui.Confirm(ctx, title, body)
			if err != nil {
				return
			}

			switch action {
			case ports.ActionApprove:
				if err := a.engine.PostReply(ctx, item.CommentID, proposed); err != nil {
					a.log.Warn("approved reply failed to post",
						zap.String("comment", item.CommentID), zap.Error(err))
				}
			case ports.ActionRegenerate:
				proposal, err := a.engine.Regenerate(ctx, item.CommentID, result.Identity)
				if err == nil && proposal.Reply != nil {
					proposed = *proposal.Reply
					continue
				}
				a.log.Warn("regenerate produced nothing", zap.String("comment", item.CommentID))
			case ports.ActionSkip:
			}
			break
		}
	}
}

func countStatus(result *domain.ScanResult, status domain.ItemStatus) int {
	n := 0
	for _, item := range result.Items {
		if item.Status == status {
			n++
		}
	}
	return n
}

func parseMode(s string) (domain.ScanMode, error) {
	switch domain.ScanMode(s) {
	case domain.ModeDryRun, domain.ModeInteractive, domain.ModeAuto:
		return domain.ScanMode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q (want dry-run, interactive, or auto)", s)
	}
}
