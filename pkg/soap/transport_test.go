package soap

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/travigo/paratransit/pkg/ctdf"
)

func TestHTTPTransportPost(t *testing.T) {
	assert := assert.New(t)

	var received *http.Request
	var receivedBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received = r
		bodyBytes, _ := io.ReadAll(r.Body)
		receivedBody = string(bodyBytes)

		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		w.Write([]byte(`<PassCreateTripResponse><BookingId>77</BookingId></PassCreateTripResponse>`))
	}))
	defer server.Close()

	codec := NewCodec("")
	transport := NewHTTPTransport(server.URL+"/sync", server.URL+"/async", codec, 5*time.Second)

	body := codec.Envelope("PassCreateTrip", Params{{Key: "ClientId", Value: "C-1"}})
	response, err := transport.Post(context.Background(), EndpointAsync, "ASP.NET_SessionId=abc", "PassCreateTrip", body)

	assert.NoError(err)
	assert.Equal("77", ExtractField(response, "BookingId"))

	assert.Equal("/async", received.URL.Path)
	assert.Equal(http.MethodPost, received.Method)
	assert.Equal(`"http://www.trapezegroup.com/PassCreateTrip"`, received.Header.Get("SOAPAction"))
	assert.Equal("ASP.NET_SessionId=abc", received.Header.Get("Cookie"))
	assert.Contains(received.Header.Get("Content-Type"), "text/xml")
	assert.Equal(body, receivedBody)
}

func TestHTTPTransportAsyncFallsBackToSync(t *testing.T) {
	var path string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`<Ok/>`))
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL+"/sync", "", NewCodec(""), 5*time.Second)
	_, err := transport.Post(context.Background(), EndpointAsync, "", "PassScheduleTrip", "")

	assert.NoError(t, err)
	assert.Equal(t, "/sync", path)
}

func TestHTTPTransportFailures(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		name     string
		status   int
		body     string
		category ctdf.FailureCategory
	}{
		{"unauthorised", http.StatusUnauthorized, "", ctdf.FailureCategoryAuth},
		{"session fault", http.StatusInternalServerError, `<soap:Fault><faultstring>Session has expired</faultstring></soap:Fault>`, ctdf.FailureCategoryAuth},
		{"server error", http.StatusBadGateway, `<html>Bad gateway</html>`, ctdf.FailureCategoryNetwork},
		{"empty", http.StatusOK, "  ", ctdf.FailureCategoryNetwork},
	}

	for _, test := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(test.status)
			w.Write([]byte(test.body))
		}))

		transport := NewHTTPTransport(server.URL, "", NewCodec(""), 5*time.Second)
		_, err := transport.Post(context.Background(), EndpointSync, "s", "PassGetClientTrips", "")

		assert.True(ctdf.IsCategory(err, test.category), test.name)

		server.Close()
	}
}

func TestHTTPTransportBackendFaultIsReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<soap:Fault><faultstring>Client not eligible</faultstring></soap:Fault>`))
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL, "", NewCodec(""), 5*time.Second)
	response, err := transport.Post(context.Background(), EndpointSync, "s", "PassCreateTrip", "")

	assert.NoError(t, err)

	message, isError := BackendError(response)
	assert.True(t, isError)
	assert.Equal(t, "Client not eligible", message)
}

func TestHTTPTransportUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	transport := NewHTTPTransport(url, "", NewCodec(""), time.Second)
	_, err := transport.Post(context.Background(), EndpointSync, "s", "PassCreateTrip", "")

	assert.True(t, ctdf.IsCategory(err, ctdf.FailureCategoryNetwork))
}
