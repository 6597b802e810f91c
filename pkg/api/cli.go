package api

import (
	"github.com/rs/zerolog/log"
	"github.com/travigo/paratransit/pkg/api/routes"
	"github.com/travigo/paratransit/pkg/booking"
	"github.com/travigo/paratransit/pkg/config"
	"github.com/travigo/paratransit/pkg/events"
	"github.com/travigo/paratransit/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the booking web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Usage: "listen target for the web server, overrides the config file",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}
					if err := cfg.RequireBackend(); err != nil {
						return err
					}

					listen := cfg.Listen
					if c.String("listen") != "" {
						listen = c.String("listen")
					}

					var publisher booking.EventPublisher
					var bookingCache *routes.BookingCache

					if redis_client.Configured() {
						if err := redis_client.Connect(); err != nil {
							return err
						}

						queuePublisher, err := events.NewQueuePublisher(redis_client.QueueConnection)
						if err != nil {
							return err
						}
						publisher = queuePublisher

						bookingCache = routes.NewBookingCache(redis_client.Client)
					} else {
						log.Warn().Msg("Redis not configured, booking events and idempotency keys are disabled")
					}

					service := booking.NewService(cfg, publisher)

					log.Info().Str("listen", listen).Msg("Starting web API")

					return SetupServer(listen, service, bookingCache)
				},
			},
		},
	}
}
