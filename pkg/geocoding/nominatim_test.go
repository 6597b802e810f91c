package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNominatimGeocode(t *testing.T) {
	assert := assert.New(t)

	var query map[string]string
	var userAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal("/search", r.URL.Path)

		query = map[string]string{}
		for key := range r.URL.Query() {
			query[key] = r.URL.Query().Get(key)
		}
		userAgent = r.Header.Get("User-Agent")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{
			"lat": "39.7817213",
			"lon": "-89.6501481",
			"address": {
				"road": "Main Street",
				"town": "Springfield",
				"state": "Illinois",
				"ISO3166-2-lvl4": "US-IL",
				"postcode": "62701"
			}
		}]`))
	}))
	defer server.Close()

	provider := NewNominatimProvider(server.URL+"/", "paratransit-test", "ops@example.com")
	candidate, err := provider.Geocode(context.Background(), "100 Main St, Springfield")

	assert.NoError(err)
	assert.Equal("100 Main St, Springfield", query["q"])
	assert.Equal("jsonv2", query["format"])
	assert.Equal("1", query["limit"])
	assert.Equal("us", query["countrycodes"])
	assert.Equal("ops@example.com", query["email"])
	assert.Equal("paratransit-test", userAgent)

	assert.InDelta(39.7817213, candidate.Latitude, 1e-9)
	assert.InDelta(-89.6501481, candidate.Longitude, 1e-9)
	assert.Equal("", candidate.HouseNumber)
	assert.Equal("Main Street", candidate.Road)
	assert.Equal("Springfield", candidate.City)
	assert.Equal("IL", candidate.State)
	assert.Equal("62701", candidate.PostalCode)
}

func TestNominatimNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	candidate, err := NewNominatimProvider(server.URL, "test", "").Geocode(context.Background(), "Nowhere")

	assert.NoError(t, err)
	assert.Nil(t, candidate)
}

func TestNominatimServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := NewNominatimProvider(server.URL, "test", "").Geocode(context.Background(), "Anywhere")

	assert.Error(t, err)
}
