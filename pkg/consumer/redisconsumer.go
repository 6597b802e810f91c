package consumer

import (
	"fmt"
	"net/http"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/travigo/paratransit/pkg/redis_client"
)

type RedisConsumer struct {
	QueueName string

	NumberConsumers int
	BatchSize       int

	Timeout time.Duration

	Consumer rmq.BatchConsumer

	StatsListen string
}

func (c *RedisConsumer) Setup() error {
	if err := c.startConsumers(); err != nil {
		return err
	}

	if c.StatsListen != "" {
		go c.startStatsServer()
	}

	return nil
}

func (c *RedisConsumer) startConsumers() error {
	log.Info().Str("queue", c.QueueName).Msg("Starting consumers")

	queue, err := redis_client.QueueConnection.OpenQueue(c.QueueName)
	if err != nil {
		return err
	}
	if err := queue.StartConsuming(int64(c.NumberConsumers*c.BatchSize), 1*time.Second); err != nil {
		return err
	}

	for i := 0; i < c.NumberConsumers; i++ {
		if _, err := queue.AddBatchConsumer(fmt.Sprintf("%s-%d", c.QueueName, i), int64(c.BatchSize), c.Timeout, c.Consumer); err != nil {
			return err
		}

		log.Info().Msgf("Started %s consumer %d", c.QueueName, i)
	}

	return nil
}

func (c *RedisConsumer) startStatsServer() {
	mux := http.NewServeMux()

	endpoint := fmt.Sprintf("/%s/stats", c.QueueName)
	mux.Handle(endpoint, NewStatsHandler(redis_client.QueueConnection, c.QueueName))
	mux.Handle("/health", NewHealthHandler())

	log.Info().Msgf("Stats server listening on %s%s", c.StatsListen, endpoint)
	if err := http.ListenAndServe(c.StatsListen, mux); err != nil {
		log.Error().Err(err).Msg("Stats server stopped")
	}
}
