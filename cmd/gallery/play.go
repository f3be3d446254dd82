package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"github.com/urfave/cli"

	"github.com/xtding233/shooting-gallery/internal/session"
	"github.com/xtding233/shooting-gallery/internal/tui"
)

func playAction(c *cli.Context) error {
	_, _, settings, err := setup(c)
	if err != nil {
		return err
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "screen")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "screen init")
	}
	defer screen.Fini()

	sess, err := session.New(uuid.NewV4().String(), settings, session.Options{})
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return tui.NewPlayer(screen, sess).Loop(ctx, c.Int("fps"))
}
