// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives catalog instrumentation events.
type Recorder interface {
	RecordRequest(endpoint string, statusCode int, latency time.Duration)
	RecordCoverLookup(outcome string)
	RecordPagesFetched(count int)
}

// Cover lookup outcomes.
const (
	CoverHit         = "hit"
	CoverMiss        = "miss"
	CoverFailed      = "failed"
	CoverPlaceholder = "placeholder"
)

type nopRecorder struct{}

func (nopRecorder) RecordRequest(string, int, time.Duration) {}
func (nopRecorder) RecordCoverLookup(string)                 {}
func (nopRecorder) RecordPagesFetched(int)                   {}

// Collector is the Prometheus implementation of [Recorder].
type Collector struct {
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	coverLookups *prometheus.CounterVec
	pages        prometheus.Counter
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reader_catalog_requests_total",
			Help: "Requests sent to the manga catalog by endpoint and status code.",
		}, []string{"endpoint", "status_code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reader_catalog_request_duration_seconds",
			Help:    "Latency of manga catalog requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		coverLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reader_catalog_cover_lookups_total",
			Help: "Cover resolutions by outcome (hit, miss, failed, placeholder).",
		}, []string{"outcome"}),
		pages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reader_catalog_pages_fetched_total",
			Help: "Collection pages fetched while exhausting paged endpoints.",
		}),
	}

	reg.MustRegister(c.requests, c.latency, c.coverLookups, c.pages)
	return c
}

// RecordRequest records one catalog round trip. A status code of 0 means a transport error.
func (c *Collector) RecordRequest(endpoint string, statusCode int, latency time.Duration) {
	c.requests.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	c.latency.WithLabelValues(endpoint).Observe(latency.Seconds())
}

// RecordCoverLookup records the outcome of a single cover resolution.
func (c *Collector) RecordCoverLookup(outcome string) {
	c.coverLookups.WithLabelValues(outcome).Inc()
}

// RecordPagesFetched records the number of pages requested by one aggregation.
func (c *Collector) RecordPagesFetched(count int) {
	c.pages.Add(float64(count))
}
