package etl

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mbta_etl_runs_completed_total",
		Help: "Total number of ETL runs that completed all stages.",
	})
	runsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mbta_etl_runs_failed_total",
		Help: "Total number of ETL runs halted by a stage failure.",
	})
	rowsLoaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mbta_etl_rows_loaded_total",
		Help: "Total number of delay rows appended to the warehouse.",
	})
	emptyRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mbta_etl_empty_runs_total",
		Help: "Total number of runs that loaded zero delayed trips.",
	})
	rowsMirrored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mbta_etl_rows_mirrored_total",
		Help: "Total number of rows upserted into the Postgres mirror.",
	})
	rowsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mbta_etl_rows_published_total",
		Help: "Total number of rows published to the Redis live channel.",
	})
	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mbta_etl_run_duration_seconds",
		Help:    "Duration of a full ETL run.",
		Buckets: []float64{0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
	})
)
