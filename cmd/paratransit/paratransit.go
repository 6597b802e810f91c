package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/paratransit/pkg/api"
	"github.com/travigo/paratransit/pkg/booking"
	"github.com/travigo/paratransit/pkg/config"
	"github.com/travigo/paratransit/pkg/events"
	"github.com/travigo/paratransit/pkg/transforms"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("PARATRANSIT_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if os.Getenv("PARATRANSIT_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	if err := transforms.SetupClient(cfg.TransformsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to load transforms")
	}

	app := &cli.App{
		Name:        "paratransit",
		Description: "Paratransit trip booking client - books, lists and cancels rider trips",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			booking.RegisterCLI(),
			events.RegisterCLI(),
		},
	}

	err = app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
