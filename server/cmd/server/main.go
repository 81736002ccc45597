package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Dstudy/Chaos-Crew-sub000/assets"
	"github.com/Dstudy/Chaos-Crew-sub000/config"
	"github.com/Dstudy/Chaos-Crew-sub000/server/core"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/leveldata"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/logger"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/protocol"
)

func main() {
	envFile := flag.String("env", "", "Optional .env file")
	port := flag.Uint("port", 0, "Server port (overrides CHAOS_PORT)")
	tickRate := flag.Int("tickrate", 0, "Server tick rate (updates per second)")
	name := flag.String("name", "", "Server display name")
	arena := flag.String("arena", "", "Arena TMX under assets/levels")
	flag.Parse()

	logger.Init()
	log := logger.For("main")

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	if err := config.LoadEnv(envFiles...); err != nil {
		log.WithError(err).Fatal("invalid environment")
	}

	settings := config.Session
	if *port != 0 {
		settings.Port = *port
	}
	if *tickRate > 0 {
		settings.TickRate = *tickRate
	}
	if *name != "" {
		settings.Name = *name
	}
	if *arena != "" {
		settings.Arena = *arena
	}

	if err := protocol.RegisterComponents(); err != nil {
		log.WithError(err).Fatal("failed to register components")
	}

	server := core.NewServer(settings, loadArena(settings.Arena))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Loop().Run(ctx) })
	g.Go(func() error {
		// The transport has no shutdown hook; the listener dies with the process.
		errc := make(chan error, 1)
		go func() { errc <- server.Listen(settings.Port) }()
		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
			log.Info("shutting down")
			return nil
		}
	})

	log.WithFields(logrus.Fields{
		"name":     settings.Name,
		"port":     settings.Port,
		"tickRate": settings.TickRate,
		"session":  server.Session().ID(),
	}).Info("starting server")

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}

// loadArena returns nil when no TMX is configured or it fails to load; the
// session then generates a layout.
func loadArena(name string) *leveldata.ArenaLayout {
	if name == "" {
		return nil
	}
	layout, err := assets.LoadArena(name)
	if err != nil {
		logger.For("main").WithError(err).WithField("arena", name).Warn("arena not loaded, generating layout")
		return nil
	}
	return layout
}
