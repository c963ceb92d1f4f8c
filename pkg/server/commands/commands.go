// Package commands implements one command per server operation. Every mutation runs its
// checks and its write inside a single datastore write transaction.
package commands

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"

	serverErrors "github.com/canopyhq/canopy/pkg/server/errors"
)

var tracer = otel.Tracer("canopy/pkg/server/commands")

var nodeMutationsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "canopy",
	Name:      "node_mutations_total",
	Help:      "The total number of node mutations, by operation and result code.",
}, []string{"operation", "result"})

const resultSuccess = "success"

func recordMutation(operation string, err error) {
	result := resultSuccess
	if err != nil {
		result = serverErrors.Encode(err).Code()
	}
	nodeMutationsCounter.WithLabelValues(operation, result).Inc()
}
