package ctdf

import (
	"fmt"
	"time"
)

// Event is a record of something the booking client did against the
// backend. Bodies never carry addresses or session tokens.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Body      EventBody
}

type EventType string

const (
	EventTypeBookingCreated   EventType = "BookingCreated"
	EventTypeBookingFailed    EventType = "BookingFailed"
	EventTypeBookingCancelled EventType = "BookingCancelled"
)

type EventBody struct {
	ClientID  string
	BookingID string `json:",omitempty"`

	ConfirmationNumber string `json:",omitempty"`
	PickupDate         string `json:",omitempty"`
	PickupWindowStart  string `json:",omitempty"`

	FailureCategory FailureCategory `json:",omitempty"`
	Message         string          `json:",omitempty"`
}

func (e *Event) GetNotificationData() EventNotificationData {
	eventNotificationData := EventNotificationData{}

	switch e.Type {
	case EventTypeBookingCreated:
		eventNotificationData.Title = "Trip booked"
		eventNotificationData.Message = fmt.Sprintf("Trip %s on %s is booked with a pickup window starting %s.", e.Body.ConfirmationNumber, e.Body.PickupDate, e.Body.PickupWindowStart)
	case EventTypeBookingFailed:
		eventNotificationData.Title = "Trip not booked"
		eventNotificationData.Message = e.Body.Message
	case EventTypeBookingCancelled:
		eventNotificationData.Title = "Trip cancelled"
		eventNotificationData.Message = fmt.Sprintf("Trip %s has been cancelled.", e.Body.BookingID)

		if e.Body.Message != "" {
			eventNotificationData.Message = fmt.Sprintf("%s %s", eventNotificationData.Message, e.Body.Message)
		}
	}

	return eventNotificationData
}

type EventNotificationData struct {
	Title   string
	Message string
}
