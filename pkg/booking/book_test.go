package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/travigo/paratransit/pkg/ctdf"
	"github.com/travigo/paratransit/pkg/rules"
	"github.com/travigo/paratransit/pkg/soap"
)

const scheduleSolutions = `<Solutions>` +
	`<Solution><ScheduleId>S1</ScheduleId><SolutionSetNumber>1</SolutionSetNumber><SolutionNumber>1</SolutionNumber>` +
	`<PickupWindowStart>34200</PickupWindowStart><PickupWindowEnd>36000</PickupWindowEnd></Solution>` +
	`<Solution><ScheduleId>S2</ScheduleId><SolutionSetNumber>1</SolutionSetNumber><SolutionNumber>2</SolutionNumber>` +
	`<PickupWindowStart>37800</PickupWindowStart><PickupWindowEnd>39600</PickupWindowEnd></Solution>` +
	`</Solutions>`

func happyTransport() *fakeTransport {
	return &fakeTransport{responses: map[string]string{
		OperationCreateTrip:   response(OperationCreateTrip, `<BookingId>5501</BookingId>`),
		OperationScheduleTrip: response(OperationScheduleTrip, scheduleSolutions),
		OperationSaveSolution: response(OperationSaveSolution, `<ConfirmationNumber>C-9001</ConfirmationNumber>`),
	}}
}

func TestBookTrip(t *testing.T) {
	assert := assert.New(t)

	transport := happyTransport()
	service, resolver, publisher := newTestService(t, transport)

	confirmed, err := service.BookTrip(context.Background(), "session=abc", "C-100", testIntent())

	assert.NoError(err)
	assert.Equal(&ctdf.ConfirmedBooking{
		BookingID:          "5501",
		ConfirmationNumber: "C-9001",
		PickupDate:         time.Date(2024, 3, 14, 0, 0, 0, 0, service.Location),
		PickupWindowStart:  "9:30 AM",
		PickupWindowEnd:    "10:00 AM",
	}, confirmed)

	assert.Equal([]string{"100 Main St, Springfield", "200 Oak Ave, Springfield"}, resolver.resolved)
	assert.Equal([]string{OperationCreateTrip, OperationScheduleTrip, OperationSaveSolution}, transport.operations())

	for _, call := range transport.calls {
		assert.Equal("session=abc", call.Session)
	}
	assert.Equal(soap.EndpointAsync, transport.call(OperationScheduleTrip).Endpoint)
	assert.Equal(soap.EndpointSync, transport.call(OperationCreateTrip).Endpoint)

	create := transport.call(OperationCreateTrip).Body
	assert.Contains(create, `<ClientId>C-100</ClientId>`)
	assert.Contains(create, `<RawDate>20240314</RawDate>`)
	assert.Contains(create, `<ReqTime>34200</ReqTime>`)
	assert.Contains(create, `<Lat>39781721</Lat><Lon>-89650148</Lon>`)
	assert.Contains(create, `<OnStreet>Oak Avenue</OnStreet>`)
	assert.Contains(create, `<Phone>2175550100</Phone>`)
	assert.Contains(create, `<Comments>Ring bell &amp; wait</Comments>`)
	assert.NotContains(create, `AlternatePhone`)
	assert.Equal(1, countOccurrences(create, `<SpaceType>WC</SpaceType>`))
	assert.Equal(2, countOccurrences(create, `<Passenger><PassengerType>CMP</PassengerType><SpaceType>AM</SpaceType></Passenger>`))

	save := transport.call(OperationSaveSolution).Body
	assert.Contains(save, `<BookingId>5501</BookingId><ScheduleId>S1</ScheduleId><SolutionSetNumber>1</SolutionSetNumber><SolutionNumber>1</SolutionNumber>`)

	assert.Len(publisher.events, 1)
	assert.Equal(ctdf.EventTypeBookingCreated, publisher.events[0].Type)
	assert.Equal("C-9001", publisher.events[0].Body.ConfirmationNumber)
	assert.Equal("20240314", publisher.events[0].Body.PickupDate)
}

func TestBookTripCreateErrorStopsTransaction(t *testing.T) {
	assert := assert.New(t)

	transport := happyTransport()
	transport.responses[OperationCreateTrip] = response(OperationCreateTrip, `<Errors><Error><Message>Client is suspended</Message></Error></Errors>`)
	service, _, publisher := newTestService(t, transport)

	confirmed, err := service.BookTrip(context.Background(), "session", "C-100", testIntent())

	assert.Nil(confirmed)
	assert.True(ctdf.IsCategory(err, ctdf.FailureCategoryBookingConflict))
	assert.Equal("Client is suspended", ctdf.AsFailure(err).Message)
	assert.Equal([]string{OperationCreateTrip}, transport.operations())

	assert.Len(publisher.events, 1)
	assert.Equal(ctdf.EventTypeBookingFailed, publisher.events[0].Type)
	assert.Equal(ctdf.FailureCategoryBookingConflict, publisher.events[0].Body.FailureCategory)
	assert.Empty(publisher.events[0].Body.BookingID)
}

func TestBookTripMissingBookingID(t *testing.T) {
	transport := happyTransport()
	transport.responses[OperationCreateTrip] = response(OperationCreateTrip, `<BookingId>0</BookingId>`)
	service, _, _ := newTestService(t, transport)

	_, err := service.BookTrip(context.Background(), "session", "C-100", testIntent())

	assert.True(t, ctdf.IsCategory(err, ctdf.FailureCategoryBookingConflict))
	assert.Equal(t, []string{OperationCreateTrip}, transport.operations())
}

func TestBookTripNoSolutions(t *testing.T) {
	assert := assert.New(t)

	transport := happyTransport()
	transport.responses[OperationScheduleTrip] = response(OperationScheduleTrip, `<Solutions></Solutions>`)
	service, _, _ := newTestService(t, transport)

	_, err := service.BookTrip(context.Background(), "session", "C-100", testIntent())

	assert.True(ctdf.IsCategory(err, ctdf.FailureCategoryBookingConflict))
	assert.Equal(MessageNoAvailableSlots, ctdf.AsFailure(err).Message)
	assert.Contains(ctdf.AsFailure(err).Message, "No available trip slots")
	assert.Equal([]string{OperationCreateTrip, OperationScheduleTrip}, transport.operations())
}

func TestBookTripScheduleFault(t *testing.T) {
	transport := happyTransport()
	transport.responses[OperationScheduleTrip] = response(OperationScheduleTrip, `<soap:Fault><faultstring>Scheduler unavailable</faultstring></soap:Fault>`)
	service, _, _ := newTestService(t, transport)

	_, err := service.BookTrip(context.Background(), "session", "C-100", testIntent())

	assert.True(t, ctdf.IsCategory(err, ctdf.FailureCategoryBookingConflict))
	assert.Equal(t, "Scheduler unavailable", ctdf.AsFailure(err).Message)
	assert.Equal(t, []string{OperationCreateTrip, OperationScheduleTrip}, transport.operations())
}

func TestBookTripSaveFailure(t *testing.T) {
	transport := happyTransport()
	transport.responses[OperationSaveSolution] = response(OperationSaveSolution, `<Success>false</Success><Message>Solution expired</Message>`)
	service, _, publisher := newTestService(t, transport)

	_, err := service.BookTrip(context.Background(), "session", "C-100", testIntent())

	assert.True(t, ctdf.IsCategory(err, ctdf.FailureCategoryBookingConflict))
	assert.Equal(t, "Solution expired", ctdf.AsFailure(err).Message)
	assert.Len(t, transport.calls, 3)

	// The abandoned draft is named on the failure event
	assert.Len(t, publisher.events, 1)
	assert.Equal(t, ctdf.EventTypeBookingFailed, publisher.events[0].Type)
	assert.Equal(t, "5501", publisher.events[0].Body.BookingID)
}

func TestBookTripValidationShortCircuits(t *testing.T) {
	assert := assert.New(t)

	transport := happyTransport()
	service, resolver, _ := newTestService(t, transport)

	intent := testIntent()
	intent.PickupDate = "2024-03-11"
	_, err := service.BookTrip(context.Background(), "session", "C-100", intent)

	assert.True(ctdf.IsCategory(err, ctdf.FailureCategoryBusinessRule))
	assert.Equal(rules.MessagePickupInPast, ctdf.AsFailure(err).Message)
	assert.Empty(resolver.resolved)
	assert.Empty(transport.calls)

	_, err = service.BookTrip(context.Background(), "session", " ", testIntent())
	assert.True(ctdf.IsCategory(err, ctdf.FailureCategoryValidation))
	assert.Empty(transport.calls)
}

func TestBookTripGeocodeMiss(t *testing.T) {
	transport := happyTransport()
	service, resolver, _ := newTestService(t, transport)

	intent := testIntent()
	intent.DestinationAddress = "1 Nowhere Lane"
	_, err := service.BookTrip(context.Background(), "session", "C-100", intent)

	assert.True(t, ctdf.IsCategory(err, ctdf.FailureCategoryValidation))
	assert.Len(t, resolver.resolved, 2)
	assert.Empty(t, transport.calls)
}

func TestBookTripRunsToCompletionAfterDraft(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	transport := happyTransport()
	transport.onCall = func(operation string) {
		if operation == OperationCreateTrip {
			cancel()
		}
	}
	service, _, _ := newTestService(t, transport)

	confirmed, err := service.BookTrip(ctx, "session", "C-100", testIntent())

	assert.NoError(t, err)
	assert.Equal(t, "C-9001", confirmed.ConfirmationNumber)
	assert.Len(t, transport.calls, 3)
}

func TestBookTripTransportFailure(t *testing.T) {
	transport := happyTransport()
	transport.errors = map[string]error{
		OperationCreateTrip: ctdf.NewAuthFailure("Your session has expired, please log in again", nil),
	}
	service, _, _ := newTestService(t, transport)

	_, err := service.BookTrip(context.Background(), "session", "C-100", testIntent())

	assert.True(t, ctdf.IsCategory(err, ctdf.FailureCategoryAuth))
	assert.True(t, ctdf.AsFailure(err).Recoverable)
}

func TestParseSolutions(t *testing.T) {
	assert := assert.New(t)

	solutions := parseSolutions(`<Solution><SchedulingId>A</SchedulingId><SolutionNumber>3</SolutionNumber></Solution>` +
		`<Solution><SolutionNumber>4</SolutionNumber></Solution>`)

	assert.Len(solutions, 1)
	assert.Equal("A", solutions[0].ScheduleID)
	assert.Equal(-1, solutions[0].PickupWindowStart)
}

func TestConfirmFallsBackToBookingID(t *testing.T) {
	assert := assert.New(t)

	transport := &fakeTransport{responses: map[string]string{
		OperationSaveSolution: response(OperationSaveSolution, `<PickupWindowStart>36000</PickupWindowStart>`),
	}}
	service, _, _ := newTestService(t, transport)

	confirmed, err := service.Confirm(context.Background(), "session", &ctdf.TripDraft{BookingID: "77"}, ctdf.ScheduleSolution{
		ScheduleID: "S", SolutionNumber: "1", PickupWindowStart: 34200, PickupWindowEnd: 36000,
	}, time.Date(2024, 3, 14, 0, 0, 0, 0, service.Location))

	assert.NoError(err)
	assert.Equal("77", confirmed.ConfirmationNumber)
	assert.Equal("10:00 AM", confirmed.PickupWindowStart)
	assert.Equal("10:00 AM", confirmed.PickupWindowEnd)
}
