package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kapu/affiliate-hub-go/internal/app"
	"github.com/kapu/affiliate-hub-go/internal/command"
	"github.com/kapu/affiliate-hub-go/internal/config"
	"github.com/kapu/affiliate-hub-go/internal/domain"
	"github.com/kapu/affiliate-hub-go/internal/util"
)

const buildTimeout = 30 * time.Second

// runtime carries the state shared by every subcommand once PersistentPreRunE ran.
type runtime struct {
	logLevel  string
	jsonOut   bool
	container *app.Container
	logger    *zap.Logger
}

func newRootCmd() (*cobra.Command, *runtime) {
	rt := &runtime{}

	root := &cobra.Command{
		Use:   "hub",
		Short: "AffiliateHub catalog, favorites and AI concierge",
		Long: `AffiliateHub serves a catalog of AI tools with affiliate links.
The catalog is synced from Notion when credentials are set and falls back
to the bundled dataset otherwise.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&rt.logLevel, "log-level", "", "override LOG_LEVEL (one-shot commands default to warn)")
	root.PersistentFlags().BoolVar(&rt.jsonOut, "json", false, "print results as JSON")

	root.AddCommand(
		newServeCmd(rt),
		newSyncCmd(rt),
		newQueryCmd(rt),
		newStatsCmd(rt),
		newAskCmd(rt),
		newFavoriteCmd(rt),
	)
	return root, rt
}

func (rt *runtime) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	switch {
	case rt.logLevel != "":
		level = rt.logLevel
	case cmd.Name() != "serve":
		level = "warn"
	}

	logger, err := util.NewLogger(level, cfg.Logging.File)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	rt.logger = logger

	buildCtx, cancel := context.WithTimeout(cmd.Context(), buildTimeout)
	defer cancel()

	container, err := app.Build(buildCtx, cfg, logger)
	if err != nil {
		logger.Error("Failed to assemble application services", zap.Error(err))
		return err
	}
	rt.container = container
	return nil
}

func (rt *runtime) teardown() {
	if rt.container != nil {
		rt.container.Close()
	}
	if rt.logger != nil {
		_ = rt.logger.Sync()
	}
}

// dispatch runs a single command event and prints every frame it produces.
func (rt *runtime) dispatch(cmd *cobra.Command, session command.ChatSession, event command.CommandEvent) error {
	var failed error
	send := func(frame command.Frame) error {
		if frame.Type == command.FrameError {
			if p, ok := frame.Payload.(command.ErrorPayload); ok {
				failed = fmt.Errorf("%s", p.Error)
			}
		}
		return rt.print(cmd, frame.Payload, func() string { return rt.container.Formatter.FormatFrame(frame) })
	}

	dispatcher := rt.container.NewDispatcher(session, send)
	if _, err := dispatcher.Publish(cmd.Context(), domain.NewCommandContext("cli", "local"), event); err != nil {
		return err
	}
	return failed
}

// print writes v as JSON when --json is set, otherwise the text from render.
func (rt *runtime) print(cmd *cobra.Command, v any, render func() string) error {
	if rt.jsonOut {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}
	cmd.Println(render())
	return nil
}
