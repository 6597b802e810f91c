package soap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/paratransit/pkg/ctdf"
	"golang.org/x/net/html/charset"
)

type Endpoint string

const (
	EndpointSync  Endpoint = "sync"
	EndpointAsync Endpoint = "async"
)

// Transport delivers a request body and hands back the raw response. The
// session is whatever the session provider issued and is passed through
// untouched.
type Transport interface {
	Post(ctx context.Context, endpoint Endpoint, session string, operation string, body string) (string, error)
}

type HTTPTransport struct {
	SyncURL  string
	AsyncURL string

	Codec  Codec
	Client *http.Client
}

func NewHTTPTransport(syncURL string, asyncURL string, codec Codec, timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		SyncURL:  syncURL,
		AsyncURL: asyncURL,
		Codec:    codec,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (t *HTTPTransport) endpointURL(endpoint Endpoint) string {
	if endpoint == EndpointAsync && t.AsyncURL != "" {
		return t.AsyncURL
	}

	return t.SyncURL
}

func (t *HTTPTransport) Post(ctx context.Context, endpoint Endpoint, session string, operation string, body string) (string, error) {
	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpointURL(endpoint), strings.NewReader(body))
	if err != nil {
		return "", ctdf.NewNetworkError("The booking service request could not be created", err)
	}

	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", fmt.Sprintf(`"%s"`, t.Codec.SOAPAction(operation)))
	if session != "" {
		req.Header.Set("Cookie", session)
	}

	resp, err := t.Client.Do(req)
	if err != nil {
		return "", ctdf.NewNetworkError("The booking service could not be reached", err)
	}
	defer resp.Body.Close()

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		reader = resp.Body
	}

	responseBytes, err := io.ReadAll(reader)
	if err != nil {
		return "", ctdf.NewNetworkError("The booking service response could not be read", err)
	}
	responseBody := string(responseBytes)

	log.Debug().
		Str("operation", operation).
		Str("endpoint", string(endpoint)).
		Int("status", resp.StatusCode).
		Str("latency", time.Since(startTime).String()).
		Msg("Booking service request")

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", ctdf.NewAuthFailure("Your session has expired, please log in again", fmt.Errorf("%s returned %s", operation, resp.Status))
	}

	if fault := ExtractField(responseBody, "faultstring"); fault != "" && isSessionFault(fault) {
		return "", ctdf.NewAuthFailure("Your session has expired, please log in again", fmt.Errorf("%s fault: %s", operation, fault))
	}

	// SOAP faults come back as 500 and carry a message worth surfacing
	if resp.StatusCode >= 300 {
		if _, isBackendError := BackendError(responseBody); !isBackendError {
			return "", ctdf.NewNetworkError("The booking service returned an error", fmt.Errorf("%s returned %s", operation, resp.Status))
		}
	}

	if strings.TrimSpace(responseBody) == "" {
		return "", ctdf.NewNetworkError("The booking service did not respond", ErrNoResponse)
	}

	return responseBody, nil
}
