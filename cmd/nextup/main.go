package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nextup-dev/nextup/adapter/cli"
	cliRecommend "github.com/nextup-dev/nextup/adapter/cli/recommend"
	cliTask "github.com/nextup-dev/nextup/adapter/cli/task"
	"github.com/nextup-dev/nextup/internal/app"
	"github.com/nextup-dev/nextup/pkg/config"
	"github.com/nextup-dev/nextup/pkg/observability"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{AppEnv: "development"}
	}

	logger := observability.LoggerFromEnv()
	cli.SetLogger(logger)

	var container *app.Container
	if cfg.UseLocalStorage() {
		container, err = app.NewLocalContainer(ctx, cfg, logger)
	} else {
		container, err = app.NewContainer(ctx, cfg, logger)
	}
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer func() { _ = container.Close() }()

	// Server mode consumes broker events in the background for cache
	// invalidation.
	if container.EventConsumer != nil {
		go func() {
			if err := container.EventConsumer.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("event consumer stopped", "error", err)
			}
		}()
	}

	cli.SetApp(&cli.App{
		Config:              cfg,
		Health:              container.Health,
		CreateTaskHandler:   container.CreateTaskHandler,
		StartTaskHandler:    container.StartTaskHandler,
		CompleteTaskHandler: container.CompleteTaskHandler,
		ArchiveTaskHandler:  container.ArchiveTaskHandler,
		ListTasksHandler:    container.ListTasksHandler,
		GetTaskHandler:      container.GetTaskHandler,
		Recommender:         container.Recommender,
	})

	cli.AddCommand(cliTask.Cmd)
	cli.AddCommand(cliRecommend.TodayCmd)
	cli.AddCommand(cliRecommend.ExplainCmd)

	cli.ExecuteContext(ctx)
}
