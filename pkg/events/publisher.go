package events

import (
	"encoding/json"

	"github.com/adjust/rmq/v5"
	"github.com/travigo/paratransit/pkg/ctdf"
)

const QueueName = "paratransit-events"

type QueuePublisher struct {
	queue rmq.Queue
}

func NewQueuePublisher(connection rmq.Connection) (*QueuePublisher, error) {
	queue, err := connection.OpenQueue(QueueName)
	if err != nil {
		return nil, err
	}

	return &QueuePublisher{queue: queue}, nil
}

func (p *QueuePublisher) Publish(event *ctdf.Event) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.queue.PublishBytes(eventBytes)
}
