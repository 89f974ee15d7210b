package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline and catalog counters, exposed on /metrics.
var (
	// CatalogRequests counts outbound catalog API calls by endpoint
	CatalogRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "golistarr_catalog_requests_total",
		Help: "Outbound catalog API requests",
	}, []string{"endpoint"})

	// RowsProcessed counts import rows by outcome
	RowsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "golistarr_rows_processed_total",
		Help: "Import rows processed, by outcome",
	}, []string{"result"})

	// ListsProcessed counts finished list imports by terminal status
	ListsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "golistarr_lists_processed_total",
		Help: "List imports finished, by terminal status",
	}, []string{"status"})

	// PersonsLinked counts person link attempts by outcome
	PersonsLinked = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "golistarr_persons_linked_total",
		Help: "Person link attempts, by outcome",
	}, []string{"result"})
)
