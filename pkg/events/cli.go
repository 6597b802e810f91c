package events

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/paratransit/pkg/consumer"
	"github.com/travigo/paratransit/pkg/ctdf"
	"github.com/travigo/paratransit/pkg/database"
	"github.com/travigo/paratransit/pkg/elastic_client"
	"github.com/travigo/paratransit/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "Provides the booking events runner",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "store booking events from the queue",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "stats-listen",
						Value: ":3333",
						Usage: "listen target for the queue stats server",
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}
					if err := redis_client.Connect(); err != nil {
						return err
					}
					if err := elastic_client.Connect(false); err != nil {
						return err
					}

					redisConsumer := consumer.RedisConsumer{
						QueueName:       QueueName,
						NumberConsumers: 2,
						BatchSize:       20,
						Timeout:         2 * time.Second,
						Consumer:        NewBatchConsumer(database.GetCollection(database.BookingEventsCollection)),
						StatsListen:     c.String("stats-listen"),
					}
					if err := redisConsumer.Setup(); err != nil {
						return err
					}

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					defer signal.Stop(signals)

					<-signals // wait for signal
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					<-redis_client.QueueConnection.StopAllConsuming() // wait for all Consume() calls to finish
					elastic_client.WaitUntilQueueEmpty()

					return database.Disconnect()
				},
			},
			{
				Name:  "test-event",
				Usage: "generate a test event",
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						return err
					}

					publisher, err := NewQueuePublisher(redis_client.QueueConnection)
					if err != nil {
						log.Fatal().Err(err).Msg("Failed to start event queue")
					}

					return publisher.Publish(&ctdf.Event{
						Type:      ctdf.EventTypeBookingCreated,
						Timestamp: time.Now(),
						Body: ctdf.EventBody{
							ClientID:           "TEST",
							BookingID:          "0",
							ConfirmationNumber: "TEST",
							PickupDate:         time.Now().Format("20060102"),
							PickupWindowStart:  "9:00 AM",
						},
					})
				},
			},
		},
	}
}
