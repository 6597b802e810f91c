package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/travigo/paratransit/pkg/ctdf"
)

func TestCancelTrip(t *testing.T) {
	assert := assert.New(t)

	transport := &fakeTransport{responses: map[string]string{
		OperationCancelTrip: response(OperationCancelTrip, `<Success>true</Success><RefCode>X-1234</RefCode>`),
	}}
	service, _, publisher := newTestService(t, transport)

	result, err := service.CancelTrip(context.Background(), "session", "C-100", "4001")

	assert.NoError(err)
	assert.Equal(&ctdf.CancelResult{Success: true, RefCode: "X-1234", Message: "The trip has been cancelled"}, result)
	assert.Contains(transport.calls[0].Body, `<PassCancelTrip xmlns="http://www.trapezegroup.com/"><ClientId>C-100</ClientId><BookingId>4001</BookingId></PassCancelTrip>`)

	assert.Len(publisher.events, 1)
	assert.Equal(ctdf.EventTypeBookingCancelled, publisher.events[0].Type)
	assert.Equal("4001", publisher.events[0].Body.BookingID)
}

func TestCancelTripRejected(t *testing.T) {
	assert := assert.New(t)

	transport := &fakeTransport{responses: map[string]string{
		OperationCancelTrip: response(OperationCancelTrip, `<Success>false</Success><Message>Trip already performed</Message>`),
	}}
	service, _, publisher := newTestService(t, transport)

	result, err := service.CancelTrip(context.Background(), "session", "C-100", "4001")

	assert.NoError(err)
	assert.False(result.Success)
	assert.Equal("Trip already performed", result.Message)
	assert.Empty(result.RefCode)
	assert.Empty(publisher.events)
}

func TestCancelTripFailures(t *testing.T) {
	assert := assert.New(t)

	transport := &fakeTransport{errors: map[string]error{
		OperationCancelTrip: ctdf.NewNetworkError("The booking service could not be reached", errors.New("dial tcp")),
	}}
	service, _, _ := newTestService(t, transport)

	_, err := service.CancelTrip(context.Background(), "session", "C-100", "")
	assert.True(ctdf.IsCategory(err, ctdf.FailureCategoryValidation))
	assert.Empty(transport.calls)

	_, err = service.CancelTrip(context.Background(), "session", "C-100", "4001")
	assert.True(ctdf.IsCategory(err, ctdf.FailureCategoryNetwork))
}
