package simgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus;
// see metrics/promcollector for a ready-made adapter.
type MetricsCollector interface {
	// RecordInsert is called after each Writer.Insert.
	RecordInsert(duration time.Duration, err error)

	// RecordFinalize is called after Writer.Finalize with the record count
	// and the size of the written file.
	RecordFinalize(records int, bytes int64, duration time.Duration, err error)

	// RecordRetrieve is called after each Retrieve with the number of
	// results and the buckets scanned.
	RecordRetrieve(m Measure, results, buckets int, duration time.Duration, err error)

	// RecordCheck is called after each Check.
	RecordCheck(found bool, duration time.Duration, err error)

	// RecordBucketLoad is called for each bucket a Reader needs. cached
	// reports whether it was served from the bucket cache.
	RecordBucketLoad(bytes int64, cached bool, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(time.Duration, error)                      {}
func (NoopMetricsCollector) RecordFinalize(int, int64, time.Duration, error)        {}
func (NoopMetricsCollector) RecordRetrieve(Measure, int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordCheck(bool, time.Duration, error)                 {}
func (NoopMetricsCollector) RecordBucketLoad(int64, bool, time.Duration, error)     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InsertCount         atomic.Int64
	InsertErrors        atomic.Int64
	FinalizeCount       atomic.Int64
	FinalizeErrors      atomic.Int64
	FinalizeBytes       atomic.Int64
	RetrieveCount       atomic.Int64
	RetrieveErrors      atomic.Int64
	RetrieveResults     atomic.Int64
	RetrieveBuckets     atomic.Int64
	RetrieveTotalNanos  atomic.Int64
	CheckCount          atomic.Int64
	CheckErrors         atomic.Int64
	CheckFound          atomic.Int64
	BucketLoads         atomic.Int64
	BucketCacheHits     atomic.Int64
	BucketLoadErrors    atomic.Int64
	BucketBytesRead     atomic.Int64
	BucketLoadTotalNano atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(_ time.Duration, err error) {
	b.InsertCount.Add(1)
	if err != nil {
		b.InsertErrors.Add(1)
	}
}

// RecordFinalize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFinalize(_ int, bytes int64, _ time.Duration, err error) {
	b.FinalizeCount.Add(1)
	if err != nil {
		b.FinalizeErrors.Add(1)
		return
	}
	b.FinalizeBytes.Add(bytes)
}

// RecordRetrieve implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRetrieve(_ Measure, results, buckets int, duration time.Duration, err error) {
	b.RetrieveCount.Add(1)
	b.RetrieveTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RetrieveErrors.Add(1)
		return
	}
	b.RetrieveResults.Add(int64(results))
	b.RetrieveBuckets.Add(int64(buckets))
}

// RecordCheck implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCheck(found bool, _ time.Duration, err error) {
	b.CheckCount.Add(1)
	if err != nil {
		b.CheckErrors.Add(1)
	}
	if found {
		b.CheckFound.Add(1)
	}
}

// RecordBucketLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBucketLoad(bytes int64, cached bool, duration time.Duration, err error) {
	if err != nil {
		b.BucketLoadErrors.Add(1)
		return
	}
	if cached {
		b.BucketCacheHits.Add(1)
		return
	}
	b.BucketLoads.Add(1)
	b.BucketBytesRead.Add(bytes)
	b.BucketLoadTotalNano.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InsertCount:      b.InsertCount.Load(),
		InsertErrors:     b.InsertErrors.Load(),
		FinalizeCount:    b.FinalizeCount.Load(),
		FinalizeErrors:   b.FinalizeErrors.Load(),
		FinalizeBytes:    b.FinalizeBytes.Load(),
		RetrieveCount:    b.RetrieveCount.Load(),
		RetrieveErrors:   b.RetrieveErrors.Load(),
		RetrieveResults:  b.RetrieveResults.Load(),
		RetrieveBuckets:  b.RetrieveBuckets.Load(),
		RetrieveAvgNanos: avg(b.RetrieveTotalNanos.Load(), b.RetrieveCount.Load()),
		CheckCount:       b.CheckCount.Load(),
		CheckErrors:      b.CheckErrors.Load(),
		CheckFound:       b.CheckFound.Load(),
		BucketLoads:      b.BucketLoads.Load(),
		BucketCacheHits:  b.BucketCacheHits.Load(),
		BucketLoadErrors: b.BucketLoadErrors.Load(),
		BucketBytesRead:  b.BucketBytesRead.Load(),
		BucketAvgNanos:   avg(b.BucketLoadTotalNano.Load(), b.BucketLoads.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InsertCount      int64
	InsertErrors     int64
	FinalizeCount    int64
	FinalizeErrors   int64
	FinalizeBytes    int64
	RetrieveCount    int64
	RetrieveErrors   int64
	RetrieveResults  int64
	RetrieveBuckets  int64
	RetrieveAvgNanos int64
	CheckCount       int64
	CheckErrors      int64
	CheckFound       int64
	BucketLoads      int64
	BucketCacheHits  int64
	BucketLoadErrors int64
	BucketBytesRead  int64
	BucketAvgNanos   int64
}
