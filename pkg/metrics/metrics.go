// Package metrics records harness operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ssargent/wordpack/pkg/codec"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Recorder receives one observation per harness operation.
type Recorder interface {
	// RecordOperation records an operation's outcome and duration.
	RecordOperation(op string, format codec.Format, success bool, duration time.Duration)
	// RecordEncoded records the size of an encoded buffer.
	RecordEncoded(format codec.Format, lines int, bytes int)
	// RecordChecksum records the last checksum an operation produced.
	RecordChecksum(op string, format codec.Format, sum uint32)
}

// Noop discards everything.
type Noop struct{}

func (Noop) RecordOperation(string, codec.Format, bool, time.Duration) {}
func (Noop) RecordEncoded(codec.Format, int, int)                      {}
func (Noop) RecordChecksum(string, codec.Format, uint32)               {}

// Metrics holds the Prometheus collectors for the harness.
type Metrics struct {
	registry *prometheus.Registry

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	encodedBytes      *prometheus.GaugeVec
	encodedLines      *prometheus.GaugeVec
	lastChecksum      *prometheus.GaugeVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,

		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordpack_operations_total",
				Help: "Total number of harness operations",
			},
			[]string{"operation", "format", "status"},
		),

		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wordpack_operation_duration_seconds",
				Help:    "Harness operation duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"operation", "format"},
		),

		encodedBytes: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wordpack_encoded_bytes",
				Help: "Size of the last encoded buffer in bytes",
			},
			[]string{"format"},
		),

		encodedLines: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wordpack_encoded_lines",
				Help: "Number of lines in the last encoded buffer",
			},
			[]string{"format"},
		),

		lastChecksum: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wordpack_last_checksum",
				Help: "Last checksum produced by an operation",
			},
			[]string{"operation", "format"},
		),
	}
}

// Registry exposes the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) RecordOperation(op string, format codec.Format, success bool, duration time.Duration) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.operationsTotal.WithLabelValues(op, format.String(), status).Inc()
	m.operationDuration.WithLabelValues(op, format.String()).Observe(duration.Seconds())
}

func (m *Metrics) RecordEncoded(format codec.Format, lines int, bytes int) {
	m.encodedLines.WithLabelValues(format.String()).Set(float64(lines))
	m.encodedBytes.WithLabelValues(format.String()).Set(float64(bytes))
}

func (m *Metrics) RecordChecksum(op string, format codec.Format, sum uint32) {
	m.lastChecksum.WithLabelValues(op, format.String()).Set(float64(sum))
}

// WriteTextfile writes the registry in the text exposition format, for the
// node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return codec.IOError(err, "write metrics", path)
	}
	return nil
}
