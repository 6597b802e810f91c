package consumer

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/adjust/rmq/v5"
	"github.com/travigo/paratransit/pkg/database"
	"github.com/travigo/paratransit/pkg/redis_client"
)

// StatsServerHandler reports on the given queues, or every open queue when
// none are named
type StatsServerHandler struct {
	redisConnection rmq.Connection
	queues          []string
}

type queueSummary struct {
	Ready    int64 `json:"ready"`
	Rejected int64 `json:"rejected"`
}

func NewStatsHandler(connection rmq.Connection, queues ...string) *StatsServerHandler {
	return &StatsServerHandler{redisConnection: connection, queues: queues}
}

func (handler *StatsServerHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	queues := handler.queues
	if len(queues) == 0 {
		openQueues, err := handler.redisConnection.GetOpenQueues()
		if err != nil {
			http.Error(writer, err.Error(), http.StatusInternalServerError)
			return
		}
		queues = openQueues
	}

	stats, err := handler.redisConnection.CollectStats(queues)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	if request.FormValue("format") != "json" {
		fmt.Fprint(writer, stats.GetHtml(request.FormValue("layout"), request.FormValue("refresh")))
		return
	}

	summary := map[string]queueSummary{}
	for name, queueStat := range stats.QueueStats {
		summary[name] = queueSummary{Ready: queueStat.ReadyCount, Rejected: queueStat.RejectedCount}
	}

	writer.Header().Set("Content-Type", "application/json")
	json.NewEncoder(writer).Encode(summary)
}

type HealthHandler struct {
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// ServeHTTP fails if redis is unreachable, or mongo when the event store is
// connected
func (handler *HealthHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	if err := redis_client.Client.Ping(request.Context()).Err(); err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	if database.MongoGlobalInstance != nil {
		if err := database.MongoGlobalInstance.Client.Ping(request.Context(), nil); err != nil {
			http.Error(writer, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	writer.WriteHeader(http.StatusOK)
	fmt.Fprint(writer, "OK")
}
