package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultNominatimEndpoint = "https://nominatim.openstreetmap.org"

type NominatimProvider struct {
	Endpoint     string
	UserAgent    string
	Email        string
	CountryCodes string

	Client *http.Client
}

type nominatimResult struct {
	Latitude  string           `json:"lat"`
	Longitude string           `json:"lon"`
	Address   nominatimAddress `json:"address"`
}

type nominatimAddress struct {
	HouseNumber string `json:"house_number"`
	Road        string `json:"road"`
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	Hamlet      string `json:"hamlet"`
	State       string `json:"state"`
	StateCode   string `json:"ISO3166-2-lvl4"`
	Postcode    string `json:"postcode"`
}

func NewNominatimProvider(endpoint string, userAgent string, email string) *NominatimProvider {
	if endpoint == "" {
		endpoint = DefaultNominatimEndpoint
	}

	return &NominatimProvider{
		Endpoint:     strings.TrimRight(endpoint, "/"),
		UserAgent:    userAgent,
		Email:        email,
		CountryCodes: "us",
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (n *NominatimProvider) GetName() string {
	return "Nominatim"
}

func (n *NominatimProvider) Geocode(ctx context.Context, address string) (*Candidate, error) {
	query := url.Values{}
	query.Set("q", address)
	query.Set("format", "jsonv2")
	query.Set("addressdetails", "1")
	query.Set("limit", "1")
	if n.CountryCodes != "" {
		query.Set("countrycodes", n.CountryCodes)
	}
	if n.Email != "" {
		query.Set("email", n.Email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/search?%s", n.Endpoint, query.Encode()), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", n.UserAgent)

	resp, err := n.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim returned %s", resp.Status)
	}

	bytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var results []nominatimResult
	if err := json.Unmarshal(bytes, &results); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, nil
	}

	return results[0].candidate()
}

func (r nominatimResult) candidate() (*Candidate, error) {
	latitude, err := strconv.ParseFloat(r.Latitude, 64)
	if err != nil {
		return nil, fmt.Errorf("bad latitude %q: %w", r.Latitude, err)
	}
	longitude, err := strconv.ParseFloat(r.Longitude, 64)
	if err != nil {
		return nil, fmt.Errorf("bad longitude %q: %w", r.Longitude, err)
	}

	city := r.Address.City
	for _, alternative := range []string{r.Address.Town, r.Address.Village, r.Address.Hamlet} {
		if city == "" {
			city = alternative
		}
	}

	// The backend stores two letter state codes
	state := r.Address.State
	if _, code, found := strings.Cut(r.Address.StateCode, "-"); found {
		state = code
	}

	return &Candidate{
		Latitude:    latitude,
		Longitude:   longitude,
		HouseNumber: r.Address.HouseNumber,
		Road:        r.Address.Road,
		City:        city,
		State:       state,
		PostalCode:  r.Address.Postcode,
	}, nil
}
