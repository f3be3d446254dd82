package main

import (
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/xtding233/shooting-gallery/internal/config"
)

func main() {
	app := makeapp()
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func makeapp() *cli.App {
	app := cli.NewApp()
	app.Name = "gallery"
	app.Usage = "Shooting gallery simulation server, terminal client and simulator"

	app.Flags = []cli.Flag{
		cli.StringSliceFlag{Name: "env", Usage: "Extra .env files to load (default .env)"},
		cli.StringFlag{Name: "config-dir", Usage: "Tuning base directory (overrides GALLERY_CONFIG_DIR)"},
		cli.StringFlag{Name: "profile", Usage: "Tuning profile under games/ (overrides GALLERY_PROFILE)"},
	}

	app.Commands = []cli.Command{
		{
			Name:  "serve",
			Usage: "Serve sessions over HTTP, WebSocket and gRPC",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "http", Usage: "HTTP listen address (overrides GALLERY_HTTP_ADDR)"},
				cli.StringFlag{Name: "grpc", Usage: "gRPC listen address (overrides GALLERY_GRPC_ADDR)"},
				cli.DurationFlag{Name: "frame-interval", Value: defaultFrameInterval, Usage: "Snapshot broadcast interval on /ws"},
				cli.DurationFlag{Name: "reload-interval", Value: defaultReloadInterval, Usage: "Tuning file poll interval"},
			},
			Action: serveAction,
		},
		{
			Name:  "play",
			Usage: "Play a local session in the terminal",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "fps", Value: 30, Usage: "Frames drawn per second"},
			},
			Action: playAction,
		},
		{
			Name:  "sim",
			Usage: "Run auto-firing sessions and report return-to-player statistics",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "trials", Value: 200, Usage: "Number of simulated sessions"},
				cli.IntFlag{Name: "ticks", Value: 36000, Usage: "Ticks per session (60 per simulated second)"},
				cli.IntFlag{Name: "every", Value: 10, Usage: "Fire once every this many ticks"},
				cli.Int64Flag{Name: "stake", Value: 10, Usage: "Stake per shot"},
				cli.Uint64Flag{Name: "seed", Value: 1, Usage: "Base seed; trial i uses seed+i"},
				cli.BoolTFlag{Name: "lead", Usage: "Lead moving targets when aiming"},
			},
			Action: simAction,
		},
	}
	return app
}

// setup resolves the process environment and the tuning for every command.
// Global flags win over GALLERY_* variables.
func setup(c *cli.Context) (config.Env, *config.Loader, config.Settings, error) {
	env, err := config.LoadEnv(c.GlobalStringSlice("env")...)
	if err != nil {
		return config.Env{}, nil, config.Settings{}, err
	}
	if v := c.GlobalString("config-dir"); v != "" {
		env.ConfigDir = v
	}
	if v := c.GlobalString("profile"); v != "" {
		env.Profile = v
	}

	loader := config.NewLoader(env.ConfigDir)
	settings, err := loader.Load(env.Profile)
	switch {
	case errors.Is(err, config.ErrNoDefault):
		log.Printf("[config] %v; using built-in tuning", err)
		settings = config.DefaultSettings()
	case err != nil:
		return config.Env{}, nil, config.Settings{}, err
	}
	return env, loader, env.Apply(settings), nil
}
