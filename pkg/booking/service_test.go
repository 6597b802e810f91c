package booking

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/travigo/paratransit/pkg/ctdf"
	"github.com/travigo/paratransit/pkg/soap"
)

type transportCall struct {
	Endpoint  soap.Endpoint
	Session   string
	Operation string
	Body      string
}

type fakeTransport struct {
	responses map[string]string
	errors    map[string]error
	onCall    func(operation string)

	calls []transportCall
}

func (f *fakeTransport) Post(ctx context.Context, endpoint soap.Endpoint, session string, operation string, body string) (string, error) {
	f.calls = append(f.calls, transportCall{endpoint, session, operation, body})

	if ctx.Err() != nil {
		return "", ctdf.NewNetworkError("The booking service could not be reached", ctx.Err())
	}
	if f.onCall != nil {
		f.onCall(operation)
	}

	if err := f.errors[operation]; err != nil {
		return "", err
	}

	return f.responses[operation], nil
}

func (f *fakeTransport) operations() []string {
	operations := []string{}
	for _, call := range f.calls {
		operations = append(operations, call.Operation)
	}

	return operations
}

func (f *fakeTransport) call(operation string) *transportCall {
	for i := range f.calls {
		if f.calls[i].Operation == operation {
			return &f.calls[i]
		}
	}

	return nil
}

type fakeResolver struct {
	addresses map[string]ctdf.GeocodedAddress
	resolved  []string
}

func (f *fakeResolver) Resolve(ctx context.Context, address string) (ctdf.GeocodedAddress, error) {
	f.resolved = append(f.resolved, address)

	geocoded, ok := f.addresses[address]
	if !ok {
		return ctdf.GeocodedAddress{}, ctdf.NewValidationFailure("The address could not be found", nil)
	}

	return geocoded, nil
}

type fakePublisher struct {
	lock   sync.Mutex
	events []*ctdf.Event
}

func (f *fakePublisher) Publish(event *ctdf.Event) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.events = append(f.events, event)
	return nil
}

func testLocation(t *testing.T) *time.Location {
	location, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}

	return location
}

func response(operation string, inner string) string {
	return `<?xml version="1.0" encoding="utf-8"?><soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body>` +
		`<` + operation + `Response xmlns="http://www.trapezegroup.com/">` + inner + `</` + operation + `Response>` +
		`</soap:Body></soap:Envelope>`
}

func newTestService(t *testing.T, transport *fakeTransport) (*Service, *fakeResolver, *fakePublisher) {
	location := testLocation(t)

	resolver := &fakeResolver{addresses: map[string]ctdf.GeocodedAddress{
		"100 Main St, Springfield": {
			Latitude: 39781721, Longitude: -89650148,
			StreetNumber: "100", StreetName: "Main Street", City: "Springfield", State: "IL", PostalCode: "62701",
		},
		"200 Oak Ave, Springfield": {
			Latitude: 39799000, Longitude: -89644000,
			StreetNumber: "200", StreetName: "Oak Avenue", City: "Springfield", State: "IL", PostalCode: "62702",
		},
	}}
	publisher := &fakePublisher{}

	service := &Service{
		Codec:     soap.NewCodec(""),
		Transport: transport,
		Addresses: resolver,
		Location:  location,
		Now: func() time.Time {
			return time.Date(2024, 3, 12, 10, 0, 0, 0, location)
		},
		Publisher: publisher,
	}

	return service, resolver, publisher
}

func testIntent() ctdf.BookingIntent {
	return ctdf.BookingIntent{
		PickupDate:         "2024-03-14",
		PickupTime:         "9:30 AM",
		PickupAddress:      "100 Main St, Springfield",
		DestinationAddress: "200 Oak Ave, Springfield",
		MobilityDevice:     ctdf.MobilityDeviceWheelchair,
		AdditionalPassengers: &ctdf.AdditionalPassengers{
			Type:  ctdf.PassengerTypeCompanion,
			Count: 2,
		},
		CallbackPhone:  "(217) 555-0100",
		PickupComments: "Ring bell & wait",
	}
}

func countOccurrences(body string, fragment string) int {
	return strings.Count(body, fragment)
}
