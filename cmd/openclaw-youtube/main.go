package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/epavlenko/openclaw-youtube/internal/auth"
	"github.com/epavlenko/openclaw-youtube/internal/brain"
	"github.com/epavlenko/openclaw-youtube/internal/config"
	"github.com/epavlenko/openclaw-youtube/internal/core/ports"
	"github.com/epavlenko/openclaw-youtube/internal/engine"
	"github.com/epavlenko/openclaw-youtube/internal/persona"
	"github.com/epavlenko/openclaw-youtube/internal/platform/youtube"
	"github.com/epavlenko/openclaw-youtube/internal/storage"
	"github.com/epavlenko/openclaw-youtube/internal/ui/telegram"
)

var (
	cfgPath string
	debug   bool
)

func main() {
	root := &cobra.Command{
		Use:           "openclaw-youtube",
		Short:         "YouTube comment reply agent",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "openclaw-youtube.yaml", "path to the yaml config file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "verbose logging")

	root.AddCommand(
		newRunCmd(),
		newScanCmd(),
		newAuthCmd(),
		newStatusCmd(),
		newReplyCmd(),
		newRegenerateCmd(),
		newModerateCmd(),
		newDeleteCmd(),
	)

	if err := root.Execute(); err != nil {
		var authErr *auth.AuthorizationRequiredError
		if errors.As(err, &authErr) {
			fmt.Fprintf(os.Stderr, "Authorization required. Open this URL in a browser:\n\n  %s\n\nthen run `openclaw-youtube auth` to complete the flow.\n", authErr.AuthURL)
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// app bundles the wired collaborators for one invocation.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	tokens   *auth.TokenManager
	platform *youtube.Client
	store    ports.RepliedStore
	personas *persona.Library
	engine   *engine.Engine
	ui       ports.Interaction
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	log, err := newLogger()
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenManager(cfg.DataDir, cfg.GoogleClientID, cfg.GoogleClientSecret)
	if err != nil {
		return nil, err
	}

	platform := youtube.NewClient(cfg.YouTubeAPIKey, tokens, cfg.RequestTimeout, log)

	// Resolve the replying account's channel id when the config does not
	// pin one; best effort, reads still work without it.
	if cfg.BotChannelID == "" {
		if id, err := platform.MyChannelID(ctx); err == nil {
			cfg.BotChannelID = id
			log.Info("resolved bot identity", zap.String("channel", id))
		} else {
			log.Debug("bot identity not resolved", zap.Error(err))
		}
	}

	var store ports.RepliedStore
	if cfg.DatabaseURL != "" {
		store, err = storage.NewPostgresRepliedSet(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		log.Info("replied-set storage: postgres")
	} else {
		store, err = storage.NewRepliedSet(filepath.Join(cfg.DataDir, "replied.json"))
		if err != nil {
			return nil, err
		}
		log.Info("replied-set storage: json file")
	}

	personas, err := persona.LoadLibrary(cfg.PersonaDir, cfg.Identity, log)
	if err != nil {
		return nil, err
	}

	backend, _, err := brain.Select(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		tokens:   tokens,
		platform: platform,
		store:    store,
		personas: personas,
	}

	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		ui, err := telegram.NewUI(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			log.Warn("telegram ui unavailable", zap.Error(err))
		} else {
			a.ui = ui
		}
	}

	a.engine = engine.New(engine.Params{
		Config:   cfg,
		Platform: platform,
		Store:    store,
		Backend:  backend,
		Personas: personas,
		Logger:   log,
	})
	return a, nil
}

func newLogger() (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	return cfg.Build()
}
