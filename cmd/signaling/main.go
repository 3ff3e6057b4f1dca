package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"

	_ "github.com/jackc/pgx/v4/stdlib"

	"github.com/skillswap/signaling/internal/auth"
	"github.com/skillswap/signaling/internal/config"
	"github.com/skillswap/signaling/internal/core"
	"github.com/skillswap/signaling/internal/eventbus"
	"github.com/skillswap/signaling/internal/notify"
	"github.com/skillswap/signaling/internal/signaling"
)

func main() {
	app := &cli.App{
		Name:        "skillswap-signaling",
		Usage:       "Session signaling and presence server",
		Description: "",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to yaml config file",
				Value: "configs/signaling.yml",
			},
			&cli.StringFlag{
				Name:  "env",
				Usage: "environment: either 'development' or 'production', overrides config",
			},
			&cli.StringFlag{
				Name:  "address",
				Usage: "listen IP and port, example: ':8080', overrides config",
			},
		},
		Action: startSignaling,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("")
	}
}

func startSignaling(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if env := c.String("env"); env != "" {
		cfg.App.Env = core.Environment(env)
	}
	if address := c.String("address"); address != "" {
		cfg.App.Address = address
	}

	db, err := sqlx.Connect("pgx", cfg.DB.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	defer rdb.Close()

	bus := eventbus.RedisPubSub(rdb)

	var notifier notify.Notifier = notify.Noop{}
	if cfg.Nats.Addr != "" {
		natsNotifier, err := notify.New(cfg.Nats.Addr)
		if err != nil {
			return err
		}
		defer natsNotifier.Close()
		notifier = natsNotifier
	}

	verifier := auth.NewFirebaseVerifier(cfg.AuthService.Addr, cfg.AuthService.Timeout)
	gate := signaling.NewAccessGate(core.NewBookingRepository(db), notifier)
	presence := signaling.NewPresenceService(core.NewUserRepository(db), bus)

	wsApp := signaling.New(signaling.AppOptions{
		Address:          cfg.App.Address,
		Env:              cfg.App.Env,
		MaxMessageSize:   cfg.App.MaxMessageSize,
		Verifier:         verifier,
		Gate:             gate,
		Presence:         presence,
		EventsSubscriber: bus,
	})

	return wsApp.Start()
}
