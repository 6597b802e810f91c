package events

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/adjust/rmq/v5"
	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/travigo/paratransit/pkg/ctdf"
	"github.com/travigo/paratransit/pkg/elastic_client"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const elasticIndexName = "paratransit-booking-events-1"

// EventStore is the part of a mongo collection the consumer writes through
type EventStore interface {
	BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error)
}

// indexedEvent is the search document for an event, carrying the rider
// facing summary alongside it
type indexedEvent struct {
	*ctdf.Event

	Title   string
	Summary string
}

func newIndexedEvent(event *ctdf.Event) indexedEvent {
	notification := event.GetNotificationData()

	return indexedEvent{
		Event:   event,
		Title:   notification.Title,
		Summary: notification.Message,
	}
}

type BatchConsumer struct {
	Store EventStore

	// Index receives the search document of every stored event
	Index func(document io.ReadSeeker)
}

func NewBatchConsumer(store EventStore) *BatchConsumer {
	return &BatchConsumer{
		Store: store,
		Index: func(document io.ReadSeeker) {
			elastic_client.IndexRequest(elasticIndexName, document)
		},
	}
}

// DecodeEvents reads queue payloads, skipping and logging any that are not
// events
func DecodeEvents(payloads []string) []*ctdf.Event {
	decoded := []*ctdf.Event{}

	for _, payload := range payloads {
		var event ctdf.Event
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			log.Error().Err(err).Msg("Failed to decode booking event")
			continue
		}

		decoded = append(decoded, &event)
	}

	return decoded
}

func (consumer *BatchConsumer) Consume(batch rmq.Deliveries) {
	decoded := DecodeEvents(batch.Payloads())

	writeModels := []mongo.WriteModel{}
	for _, event := range decoded {
		log.Debug().Msg(pretty.Sprint(event))

		writeModels = append(writeModels, mongo.NewInsertOneModel().SetDocument(event))
	}

	if consumer.Store != nil && len(writeModels) > 0 {
		_, err := consumer.Store.BulkWrite(context.Background(), writeModels, &options.BulkWriteOptions{})
		if err != nil {
			log.Error().Err(err).Msg("Failed to bulk write booking events")

			if rejectErrors := batch.Reject(); len(rejectErrors) > 0 {
				for _, err := range rejectErrors {
					log.Error().Err(err).Msg("Failed to reject booking event")
				}
			}
			return
		}
	}

	log.Info().Int("events", len(decoded)).Msg("Stored booking events")

	// Only events that made it into the store are indexed, a rejected batch
	// comes back round and is indexed then
	if consumer.Index != nil {
		for _, event := range decoded {
			if eventBytes, err := json.Marshal(newIndexedEvent(event)); err == nil {
				consumer.Index(bytes.NewReader(eventBytes))
			}
		}
	}

	if ackErrors := batch.Ack(); len(ackErrors) > 0 {
		for _, err := range ackErrors {
			log.Error().Err(err).Msg("Failed to consume booking event")
		}
	}
}
