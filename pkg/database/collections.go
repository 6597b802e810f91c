package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const BookingEventsCollection = "booking_events"

var collectionIndexes = map[string][]mongo.IndexModel{
	BookingEventsCollection: BookingEventsIndexes(),
}

// BookingEventsIndexes covers a client's history newest first, lookups of a
// single booking and counts per event type
func BookingEventsIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "body.clientid", Value: 1}, {Key: "timestamp", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "body.bookingid", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "type", Value: 1}},
		},
	}
}

func createIndexes(ctx context.Context) {
	for collectionName, indexes := range collectionIndexes {
		_, err := GetCollection(collectionName).Indexes().CreateMany(ctx, indexes, options.CreateIndexes())
		if err != nil {
			log.Error().Err(err).Str("collection", collectionName).Msg("Failed to create indexes")
		}
	}
}
