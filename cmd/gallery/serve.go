package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"google.golang.org/grpc"

	"github.com/xtding233/shooting-gallery/internal/config"
	"github.com/xtding233/shooting-gallery/internal/rpc"
	"github.com/xtding233/shooting-gallery/internal/session"
)

const (
	defaultFrameInterval  = 50 * time.Millisecond
	defaultReloadInterval = 2 * time.Second
)

func serveAction(c *cli.Context) error {
	env, loader, settings, err := setup(c)
	if err != nil {
		return err
	}
	if v := c.String("http"); v != "" {
		env.HTTPAddr = v
	}
	if v := c.String("grpc"); v != "" {
		env.GRPCAddr = v
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mgr := session.NewManager(settings, session.Options{})
	defer mgr.CloseAll()

	watcher := config.WatchProfile(loader, env.Profile, c.Duration("reload-interval"), func(s config.Settings) {
		mgr.Update(env.Apply(s))
	})
	watcher.Start()
	defer watcher.Stop()

	lis, err := net.Listen("tcp", env.GRPCAddr)
	if err != nil {
		return errors.Wrapf(err, "listen %s", env.GRPCAddr)
	}
	gs := grpc.NewServer()
	rpc.RegisterGalleryServer(gs, rpc.NewServer(ctx, mgr))
	go func() {
		log.Println("grpc listening on", env.GRPCAddr, "...")
		if err := gs.Serve(lis); err != nil {
			log.Println("grpc:", err)
		}
	}()
	defer gs.Stop()

	a := &api{base: ctx, mgr: mgr, frameEvery: c.Duration("frame-interval")}
	srv := &http.Server{Addr: env.HTTPAddr, Handler: a.routes()}
	errc := make(chan error, 1)
	go func() {
		log.Println("listening on", env.HTTPAddr, "...")
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Println("shutting down")
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdown)
}
