package database

import (
	"context"
	"time"

	"github.com/travigo/paratransit/pkg/util"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoInstance struct {
	Client   *mongo.Client
	Database *mongo.Database
}

var MongoGlobalInstance *MongoInstance

type Settings struct {
	ConnectionString string
	DatabaseName     string
}

func SettingsFromEnvironment() Settings {
	settings := Settings{
		ConnectionString: "mongodb://localhost:27017/",
		DatabaseName:     "paratransit",
	}

	env := util.GetEnvironmentVariables()
	if env["PARATRANSIT_MONGODB_CONNECTION"] != "" {
		settings.ConnectionString = env["PARATRANSIT_MONGODB_CONNECTION"]
	}
	if env["PARATRANSIT_MONGODB_DATABASE"] != "" {
		settings.DatabaseName = env["PARATRANSIT_MONGODB_DATABASE"]
	}

	return settings
}

// Connect opens the booking event store and makes sure its indexes exist
func Connect() error {
	settings := SettingsFromEnvironment()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(settings.ConnectionString))
	if err != nil {
		return err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return err
	}

	MongoGlobalInstance = &MongoInstance{
		Client:   client,
		Database: client.Database(settings.DatabaseName),
	}

	createIndexes(ctx)

	return nil
}

func Disconnect() error {
	if MongoGlobalInstance == nil {
		return nil
	}

	return MongoGlobalInstance.Client.Disconnect(context.Background())
}

func GetCollection(collectionName string) *mongo.Collection {
	return MongoGlobalInstance.Database.Collection(collectionName)
}
