// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records HTTP and blob storage metrics.
type Collector struct {
	requests       *prometheus.CounterVec
	requestLatency prometheus.Histogram
	blobUploads    prometheus.Counter
	blobUploadFail prometheus.Counter
	blobDeleteFail prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resumitory_http_requests_total",
			Help: "HTTP requests by method and status code",
		}, []string{"method", "status"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "resumitory_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		blobUploads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "resumitory_blob_uploads_total",
			Help: "Successful blob uploads",
		}),
		blobUploadFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "resumitory_blob_upload_failures_total",
			Help: "Blob upload failures",
		}),
		blobDeleteFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "resumitory_blob_delete_failures_total",
			Help: "Blob delete failures that were swallowed",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.requestLatency,
		c.blobUploads,
		c.blobUploadFail,
		c.blobDeleteFail,
	)
	return c
}

// RecordRequest counts a finished HTTP request.
func (c *Collector) RecordRequest(method string, status int) {
	c.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// RecordRequestLatency observes a request duration.
func (c *Collector) RecordRequestLatency(d time.Duration) {
	c.requestLatency.Observe(d.Seconds())
}

// RecordBlobUpload counts a successful upload.
func (c *Collector) RecordBlobUpload() {
	c.blobUploads.Inc()
}

// RecordBlobUploadFailure counts a failed upload.
func (c *Collector) RecordBlobUploadFailure() {
	c.blobUploadFail.Inc()
}

// RecordBlobDeleteFailure counts a blob delete failure. Deletes are
// best-effort and never fail the request, so this counter is the only place
// those errors stay visible.
func (c *Collector) RecordBlobDeleteFailure() {
	c.blobDeleteFail.Inc()
}

// Handler serves the registry in Prometheus text format.
func Handler(reg *prometheus.Registry) gin.HandlerFunc {
	h := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
