package redis_client

import (
	"context"
	"strconv"

	"github.com/adjust/rmq/v5"
	"github.com/redis/go-redis/v9"
	"github.com/travigo/paratransit/pkg/util"
)

var Client *redis.Client
var QueueConnection rmq.Connection

const defaultConnectionAddress = "localhost:6379"
const defaultConnectionPassword = ""
const defaultDatabase = 0

// Configured reports whether a Redis address has been given, Redis backed
// features are optional
func Configured() bool {
	return util.GetEnvironmentVariables()["PARATRANSIT_REDIS_ADDRESS"] != ""
}

func Connect() error {
	address := defaultConnectionAddress
	password := defaultConnectionPassword
	database := defaultDatabase

	env := util.GetEnvironmentVariables()

	if env["PARATRANSIT_REDIS_ADDRESS"] != "" {
		address = env["PARATRANSIT_REDIS_ADDRESS"]
	}

	if env["PARATRANSIT_REDIS_PASSWORD"] != "" {
		password = env["PARATRANSIT_REDIS_PASSWORD"]
	}

	if env["PARATRANSIT_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["PARATRANSIT_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return err
		}
	}

	return ConnectWithOptions(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})
}

func ConnectWithOptions(options *redis.Options) error {
	Client = redis.NewClient(options)

	statusCmd := Client.Ping(context.Background())
	err := statusCmd.Err()
	if err != nil {
		return err
	}

	QueueConnection, err = rmq.OpenConnectionWithRedisClient("paratransit", Client, nil)
	if err != nil {
		return err
	}

	return nil
}
