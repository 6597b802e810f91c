package booking

import (
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/paratransit/pkg/config"
	"github.com/travigo/paratransit/pkg/ctdf"
	"github.com/travigo/paratransit/pkg/events"
	"github.com/travigo/paratransit/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

var sessionFlags = []cli.Flag{
	&cli.StringFlag{
		Name:     "session",
		Usage:    "session token issued when the rider logged in",
		EnvVars:  []string{"PARATRANSIT_SESSION"},
		Required: true,
	},
	&cli.StringFlag{
		Name:     "client",
		Usage:    "rider client ID",
		Required: true,
	},
}

var formatFlag = &cli.StringFlag{
	Name:  "format",
	Value: OutputPretty,
	Usage: "output format, one of pretty, csv or json",
}

var intentFlags = []cli.Flag{
	&cli.StringFlag{Name: "date", Usage: "pickup date, YYYY-MM-DD", Required: true},
	&cli.StringFlag{Name: "time", Usage: "pickup time, eg 9:30 AM or 14:00", Required: true},
	&cli.StringFlag{Name: "pickup", Usage: "pickup address", Required: true},
	&cli.StringFlag{Name: "destination", Usage: "destination address", Required: true},
	&cli.StringFlag{Name: "device", Usage: "mobility device code"},
	&cli.StringFlag{Name: "passenger-type", Usage: "additional passenger type code"},
	&cli.IntFlag{Name: "passenger-count", Usage: "number of additional passengers"},
	&cli.StringFlag{Name: "phone", Usage: "callback phone number"},
	&cli.StringFlag{Name: "alternate-phone", Usage: "alternate callback phone number"},
	&cli.StringFlag{Name: "pickup-comments", Usage: "comments for the driver at pickup"},
	&cli.StringFlag{Name: "destination-comments", Usage: "comments for the driver at the destination"},
	&cli.StringFlag{Name: "purpose", Usage: "trip purpose code"},
}

func intentFromFlags(c *cli.Context) ctdf.BookingIntent {
	intent := ctdf.BookingIntent{
		PickupDate:         c.String("date"),
		PickupTime:         c.String("time"),
		PickupAddress:      c.String("pickup"),
		DestinationAddress: c.String("destination"),
		MobilityDevice:     ctdf.MobilityDevice(c.String("device")),
		CallbackPhone:      c.String("phone"),
		AlternateCallback:  c.String("alternate-phone"),
		PickupComments:     c.String("pickup-comments"),
		DestinationComment: c.String("destination-comments"),
		Purpose:            c.String("purpose"),
	}

	if c.String("passenger-type") != "" || c.Int("passenger-count") > 0 {
		intent.AdditionalPassengers = &ctdf.AdditionalPassengers{
			Type:  ctdf.PassengerType(c.String("passenger-type")),
			Count: c.Int("passenger-count"),
		}
	}

	return intent
}

// setupService loads config and connects the optional event queue
func setupService() (*Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireBackend(); err != nil {
		return nil, err
	}

	var publisher EventPublisher
	if redis_client.Configured() {
		if err := redis_client.Connect(); err != nil {
			return nil, err
		}

		queuePublisher, err := events.NewQueuePublisher(redis_client.QueueConnection)
		if err != nil {
			return nil, err
		}
		publisher = queuePublisher
	}

	return NewService(cfg, publisher), nil
}

func localService() (*Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	return &Service{Location: cfg.Location()}, nil
}

func parseDateFlag(value string, location *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	date, err := time.ParseInLocation("2006-01-02", value, location)
	if err != nil {
		return nil, err
	}

	return &date, nil
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "trips",
		Usage: "Book, list and cancel paratransit trips",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list a rider's trips",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "first trip date, YYYY-MM-DD"},
					&cli.StringFlag{Name: "to", Usage: "last trip date, YYYY-MM-DD"},
					&cli.BoolFlag{Name: "upcoming", Usage: "only show active trips, soonest first"},
					&cli.StringFlag{Name: "filter", Usage: "expression trips must match, eg Fare > 2"},
					formatFlag,
				}, sessionFlags...),
				Action: func(c *cli.Context) error {
					service, err := setupService()
					if err != nil {
						return err
					}

					from, err := parseDateFlag(c.String("from"), service.Location)
					if err != nil {
						return err
					}
					to, err := parseDateFlag(c.String("to"), service.Location)
					if err != nil {
						return err
					}

					trips, err := service.GetTrips(c.Context, c.String("session"), c.String("client"), from, to)
					if err != nil {
						return err
					}

					if c.Bool("upcoming") {
						trips = ctdf.FilterUpcoming(trips)
					}

					trips, err = FilterTrips(trips, c.String("filter"))
					if err != nil {
						return err
					}

					return WriteTrips(os.Stdout, trips, c.String("format"))
				},
			},
			{
				Name:  "book",
				Usage: "book a trip",
				Flags: append(append([]cli.Flag{formatFlag}, intentFlags...), sessionFlags...),
				Action: func(c *cli.Context) error {
					service, err := setupService()
					if err != nil {
						return err
					}

					confirmed, err := service.BookTrip(c.Context, c.String("session"), c.String("client"), intentFromFlags(c))
					if err != nil {
						return err
					}

					log.Info().Str("confirmation", confirmed.ConfirmationNumber).Msg("Trip booked")

					return WriteResult(os.Stdout, confirmed, c.String("format"))
				},
			},
			{
				Name:  "cancel",
				Usage: "cancel a booked trip",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "booking", Usage: "booking ID to cancel", Required: true},
					&cli.StringFlag{Name: "date", Usage: "trip date, checks the cancellation notice before calling the backend"},
					&cli.StringFlag{Name: "pickup", Usage: "pickup window start, eg 9:30 AM"},
					formatFlag,
				}, sessionFlags...),
				Action: func(c *cli.Context) error {
					service, err := setupService()
					if err != nil {
						return err
					}

					if c.String("date") != "" {
						result := service.ValidateCancellation(c.String("date"), c.String("pickup"), service.CurrentTime())
						if !result.Valid {
							return result.Failure()
						}
						if result.Warning != "" {
							log.Warn().Msg(result.Warning)
						}
					}

					result, err := service.CancelTrip(c.Context, c.String("session"), c.String("client"), c.String("booking"))
					if err != nil {
						return err
					}

					if err := WriteResult(os.Stdout, result, c.String("format")); err != nil {
						return err
					}

					if !result.Success {
						return errors.New(result.Message)
					}

					return nil
				},
			},
			{
				Name:  "validate-booking",
				Usage: "check a booking against the booking window rules without contacting the backend",
				Flags: append([]cli.Flag{formatFlag}, intentFlags...),
				Action: func(c *cli.Context) error {
					service, err := localService()
					if err != nil {
						return err
					}

					return WriteResult(os.Stdout, service.ValidateBooking(intentFromFlags(c), service.CurrentTime()), c.String("format"))
				},
			},
			{
				Name:  "validate-cancellation",
				Usage: "check whether a trip can still be cancelled",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "date", Usage: "trip date", Required: true},
					&cli.StringFlag{Name: "pickup", Usage: "pickup window start", Required: true},
					formatFlag,
				},
				Action: func(c *cli.Context) error {
					service, err := localService()
					if err != nil {
						return err
					}

					return WriteResult(os.Stdout, service.ValidateCancellation(c.String("date"), c.String("pickup"), service.CurrentTime()), c.String("format"))
				},
			},
		},
	}
}
