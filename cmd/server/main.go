package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/worldpos/internal/core/models"
	"github.com/zeusync/worldpos/internal/core/observability/log"
	"github.com/zeusync/worldpos/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML or JSON config file")
	flag.Parse()

	app, err := injector.InitializeApp(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading application:", err)
		os.Exit(1)
	}
	defer func() { _ = app.Logger.Sync() }()

	if err = run(app); err != nil {
		app.Logger.Error("Server exited", log.Error(err))
		os.Exit(1)
	}
}

func run(app *injector.App) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	player := app.Config.Player
	id, err := app.World.Spawn(models.KindPlayer, player.Name, player.StartValues(), player.Bearing, player.Movement)
	if err != nil {
		return fmt.Errorf("spawn player: %w", err)
	}
	if player.Follow {
		if err = app.World.Follow(id); err != nil {
			return err
		}
	}

	if err = app.Server.Start(ctx); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Loop.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return app.Server.Stop(shutdownCtx)
	})
	return g.Wait()
}
