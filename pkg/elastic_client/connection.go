package elastic_client

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/rs/zerolog/log"
	"github.com/travigo/paratransit/pkg/util"
)

var Client *elasticsearch.Client
var bulkIndexer esutil.BulkIndexer

var errNotConfigured = errors.New("PARATRANSIT_ELASTICSEARCH_ADDRESS is not set")

type Settings struct {
	Address  string
	Username string
	Password string
	Insecure bool

	FlushInterval time.Duration
}

func SettingsFromEnvironment() Settings {
	env := util.GetEnvironmentVariables()

	return Settings{
		Address:       env["PARATRANSIT_ELASTICSEARCH_ADDRESS"],
		Username:      env["PARATRANSIT_ELASTICSEARCH_USERNAME"],
		Password:      env["PARATRANSIT_ELASTICSEARCH_PASSWORD"],
		Insecure:      env["PARATRANSIT_ELASTICSEARCH_INSECURE"] == "YES",
		FlushInterval: 15 * time.Second,
	}
}

// Config turns the settings into a client config that retries gateway
// errors and throttling with exponential backoff
func (s Settings) Config() elasticsearch.Config {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if s.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return elasticsearch.Config{
		Addresses: []string{s.Address},
		Username:  s.Username,
		Password:  s.Password,
		Transport: transport,

		RetryOnStatus: []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusTooManyRequests},
		RetryBackoff:  newRetryBackoff(),
		MaxRetries:    5,
	}
}

func newRetryBackoff() func(int) time.Duration {
	retryBackoff := backoff.NewExponentialBackOff()

	return func(attempt int) time.Duration {
		if attempt == 1 {
			retryBackoff.Reset()
		}
		return retryBackoff.NextBackOff()
	}
}

// Connect sets up the client and the bulk indexer booking events are sent
// through. Without an address indexing is skipped unless required.
func Connect(required bool) error {
	settings := SettingsFromEnvironment()

	if settings.Address == "" {
		if required {
			return errNotConfigured
		}

		log.Info().Msg("Skipping Elasticsearch setup, booking events will not be indexed")
		return nil
	}

	es, err := elasticsearch.NewClient(settings.Config())
	if err != nil {
		return err
	}

	if _, err := es.Info(); err != nil {
		return err
	}

	indexer, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:        es,
		FlushInterval: settings.FlushInterval,
	})
	if err != nil {
		return err
	}

	Client = es
	bulkIndexer = indexer

	log.Info().Str("address", settings.Address).Msg("Elasticsearch client setup")

	return nil
}

func IndexRequest(indexName string, document io.ReadSeeker) {
	if bulkIndexer == nil {
		return
	}

	err := bulkIndexer.Add(context.Background(), esutil.BulkIndexerItem{
		Index:     indexName,
		Action:    "index",
		Body:      document,
		OnFailure: logIndexFailure,
	})
	if err != nil {
		log.Error().Err(err).Str("index", indexName).Msg("Failed to queue document")
	}
}

func logIndexFailure(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
	if err != nil {
		log.Error().Err(err).Str("index", item.Index).Msg("Failed to index document")
		return
	}

	log.Error().Str("index", item.Index).Str("type", res.Error.Type).Str("reason", res.Error.Reason).Msg("Failed to index document")
}

// WaitUntilQueueEmpty flushes anything still held by the bulk indexer
func WaitUntilQueueEmpty() {
	if bulkIndexer == nil {
		return
	}

	if err := bulkIndexer.Close(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to flush bulk indexer")
	}
}
