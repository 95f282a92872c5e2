package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/epavlenko/openclaw-youtube/internal/auth"
	"github.com/epavlenko/openclaw-youtube/internal/core/domain"
	"github.com/epavlenko/openclaw-youtube/internal/engine"
)

func newScanCmd() *cobra.Command {
	var (
		mode     string
		identity string
		videoID  string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one scan and print the resulting items",
		RunE: func(cmd *cobra.Command, args []string) error {
			scanMode, err := parseMode(mode)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			result, err := a.engine.Scan(ctx, engine.ScanRequest{
				Mode:     scanMode,
				Identity: identity,
				Limit:    limit,
				VideoID:  videoID,
			})
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(domain.ModeDryRun), "dry-run, interactive, or auto")
	cmd.Flags().StringVar(&identity, "identity", "", "persona to reply as")
	cmd.Flags().StringVar(&videoID, "video", "", "scan a single video")
	cmd.Flags().IntVar(&limit, "limit", 0, "cap the number of tasks (0 = no cap)")
	return cmd
}

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize the replying account interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}

			flow, err := a.tokens.StartAuth()
			if err != nil {
				return err
			}
			fmt.Printf("Open this URL in a browser:\n\n  %s\n\nWaiting for the callback...\n", flow.AuthURL)

			code, err := auth.WaitForCallback(ctx, flow.State)
			if err != nil {
				return err
			}
			token, err := a.tokens.ExchangeCode(ctx, code, flow.Verifier)
			if err != nil {
				return err
			}
			fmt.Println("Authorized.")
			if token.Email != "" {
				fmt.Println("Account:", token.Email)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "import <token-file>",
		Short: "Import an existing token file (native or foreign layout)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := a.tokens.ImportExternalToken(data); err != nil {
				return err
			}
			fmt.Println("Token imported.")
			return nil
		},
	})
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show replied-set size, last scan time, and identities",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(a.engine.Status(cmd.Context()))
		},
	}
}

func newReplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reply <comment-id> <text...>",
		Short: "Post a reply under a comment and mark it handled",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.engine.PostReply(cmd.Context(), args[0], strings.Join(args[1:], " ")); err != nil {
				return err
			}
			fmt.Println("Posted.")
			return nil
		},
	}
}

func newRegenerateCmd() *cobra.Command {
	var identity string
	cmd := &cobra.Command{
		Use:   "regenerate <comment-id>",
		Short: "Generate a fresh proposal for one comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			proposal, err := a.engine.Regenerate(cmd.Context(), args[0], identity)
			if err != nil {
				return err
			}
			return printJSON(proposal)
		},
	}
	cmd.Flags().StringVar(&identity, "identity", "", "persona to reply as")
	return cmd
}

func newModerateCmd() *cobra.Command {
	var ban bool
	cmd := &cobra.Command{
		Use:   "moderate <comment-id> <published|heldForReview|rejected>",
		Short: "Set a comment's moderation status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := domain.ModerationStatus(args[1])
			switch status {
			case domain.ModerationPublished, domain.ModerationHeldForReview, domain.ModerationRejected:
			default:
				return fmt.Errorf("unknown moderation status %q", args[1])
			}
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			return a.platform.SetModerationStatus(cmd.Context(), args[0], status, ban)
		},
	}
	cmd.Flags().BoolVar(&ban, "ban", false, "also ban the author (rejected only)")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <comment-id>",
		Short: "Delete a comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			return a.platform.DeleteComment(cmd.Context(), args[0])
		},
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
