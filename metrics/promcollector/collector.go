// Package promcollector exports simgo operational metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	c := promcollector.New("simgo")
//	reg.MustRegister(c)
//	r, _ := simgo.Open("names.sim", simgo.WithMetricsCollector(c))
package promcollector

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/simgo"
)

// Collector implements simgo.MetricsCollector and prometheus.Collector.
type Collector struct {
	insertsTotal      *prometheus.CounterVec
	finalizesTotal    *prometheus.CounterVec
	finalizeBytes     prometheus.Counter
	finalizeDuration  prometheus.Histogram
	retrievesTotal    *prometheus.CounterVec
	retrieveLatency   *prometheus.HistogramVec
	retrieveResults   prometheus.Histogram
	bucketsScanned    prometheus.Histogram
	checksTotal       *prometheus.CounterVec
	bucketLoadsTotal  *prometheus.CounterVec
	bucketBytesRead   prometheus.Counter
	bucketLoadLatency prometheus.Histogram
}

var _ simgo.MetricsCollector = (*Collector)(nil)

// New creates a Collector whose metric names start with namespace.
// It must be registered with a prometheus.Registerer to be scraped.
func New(namespace string) *Collector {
	return &Collector{
		insertsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "inserts_total",
				Help:      "Total records inserted by status.",
			},
			[]string{"status"},
		),
		finalizesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "finalizes_total",
				Help:      "Total index finalize operations by status.",
			},
			[]string{"status"},
		),
		finalizeBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "finalize_bytes_total",
				Help:      "Total bytes of finalized index files.",
			},
		),
		finalizeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "finalize_duration_seconds",
				Help:      "Index finalize latency in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
			},
		),
		retrievesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "retrieves_total",
				Help:      "Total retrieve queries by measure and result type (hit, zero_result, error).",
			},
			[]string{"measure", "result_type"},
		),
		retrieveLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "retrieve_latency_seconds",
				Help:      "Retrieve latency in seconds.",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"measure"},
		),
		retrieveResults: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "retrieve_results_count",
				Help:      "Number of results returned per retrieve.",
				Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 500},
			},
		),
		bucketsScanned: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "retrieve_buckets_scanned",
				Help:      "Number of size buckets scanned per retrieve.",
				Buckets:   []float64{0, 1, 2, 4, 8, 16, 32},
			},
		),
		checksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "checks_total",
				Help:      "Total existence checks by result (found, not_found, error).",
			},
			[]string{"result"},
		),
		bucketLoadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bucket_loads_total",
				Help:      "Total bucket lookups by source (cache, storage, error).",
			},
			[]string{"source"},
		),
		bucketBytesRead: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bucket_bytes_read_total",
				Help:      "Total bucket block bytes read from storage.",
			},
		),
		bucketLoadLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "bucket_load_latency_seconds",
				Help:      "Latency of reading and decoding a bucket block in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
}

func (c *Collector) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		c.insertsTotal,
		c.finalizesTotal,
		c.finalizeBytes,
		c.finalizeDuration,
		c.retrievesTotal,
		c.retrieveLatency,
		c.retrieveResults,
		c.bucketsScanned,
		c.checksTotal,
		c.bucketLoadsTotal,
		c.bucketBytesRead,
		c.bucketLoadLatency,
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.collectors() {
		m.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range c.collectors() {
		m.Collect(ch)
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordInsert implements simgo.MetricsCollector.
func (c *Collector) RecordInsert(_ time.Duration, err error) {
	c.insertsTotal.WithLabelValues(status(err)).Inc()
}

// RecordFinalize implements simgo.MetricsCollector.
func (c *Collector) RecordFinalize(_ int, bytes int64, duration time.Duration, err error) {
	c.finalizesTotal.WithLabelValues(status(err)).Inc()
	if err != nil {
		return
	}
	c.finalizeBytes.Add(float64(bytes))
	c.finalizeDuration.Observe(duration.Seconds())
}

// RecordRetrieve implements simgo.MetricsCollector.
func (c *Collector) RecordRetrieve(m simgo.Measure, results, buckets int, duration time.Duration, err error) {
	name := m.String()
	switch {
	case err != nil:
		c.retrievesTotal.WithLabelValues(name, "error").Inc()
		return
	case results == 0:
		c.retrievesTotal.WithLabelValues(name, "zero_result").Inc()
	default:
		c.retrievesTotal.WithLabelValues(name, "hit").Inc()
	}
	c.retrieveLatency.WithLabelValues(name).Observe(duration.Seconds())
	c.retrieveResults.Observe(float64(results))
	c.bucketsScanned.Observe(float64(buckets))
}

// RecordCheck implements simgo.MetricsCollector.
func (c *Collector) RecordCheck(found bool, _ time.Duration, err error) {
	switch {
	case err != nil:
		c.checksTotal.WithLabelValues("error").Inc()
	case found:
		c.checksTotal.WithLabelValues("found").Inc()
	default:
		c.checksTotal.WithLabelValues("not_found").Inc()
	}
}

// RecordBucketLoad implements simgo.MetricsCollector.
func (c *Collector) RecordBucketLoad(bytes int64, cached bool, duration time.Duration, err error) {
	switch {
	case err != nil:
		c.bucketLoadsTotal.WithLabelValues("error").Inc()
	case cached:
		c.bucketLoadsTotal.WithLabelValues("cache").Inc()
	default:
		c.bucketLoadsTotal.WithLabelValues("storage").Inc()
		c.bucketBytesRead.Add(float64(bytes))
		c.bucketLoadLatency.Observe(duration.Seconds())
	}
}
