package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics — Prometheus метрики pipeline.
//
// Все методы безопасны для nil-получателя, поэтому компоненты
// могут работать без метрик (например, в тестах).
type Metrics struct {
	filesDetected    prometheus.Counter
	scanErrors       prometheus.Counter
	scanDuration     prometheus.Histogram
	messagesPushed   *prometheus.CounterVec
	messagesConsumed *prometheus.CounterVec
	invalidMessages  *prometheus.CounterVec
	readMisses       *prometheus.CounterVec
}

// NewMetrics регистрирует метрики в reg.
// Если reg == nil, используется prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		filesDetected: factory.NewCounter(prometheus.CounterOpts{
			Name: "netobs_watcher_files_detected_total",
			Help: "Files dispatched by the polling watcher",
		}),
		scanErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "netobs_watcher_scan_errors_total",
			Help: "Polling scans aborted by an error",
		}),
		scanDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "netobs_watcher_scan_duration_seconds",
			Help:    "Duration of a single directory scan",
			Buckets: prometheus.DefBuckets,
		}),
		messagesPushed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "netobs_mq_messages_pushed_total",
			Help: "Messages published to a queue",
		}, []string{"queue"}),
		messagesConsumed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "netobs_mq_messages_consumed_total",
			Help: "Messages read or delivered and acknowledged",
		}, []string{"queue"}),
		invalidMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "netobs_mq_invalid_messages_total",
			Help: "Messages left unacknowledged because the body could not be decoded",
		}, []string{"queue"}),
		readMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "netobs_mq_read_empty_total",
			Help: "Pull reads that found the queue empty",
		}, []string{"queue"}),
	}
}

// FileDetected увеличивает счётчик обнаруженных файлов.
func (m *Metrics) FileDetected() {
	if m == nil {
		return
	}
	m.filesDetected.Inc()
}

// ScanFailed увеличивает счётчик прерванных сканирований.
func (m *Metrics) ScanFailed() {
	if m == nil {
		return
	}
	m.scanErrors.Inc()
}

// ObserveScan записывает длительность сканирования.
func (m *Metrics) ObserveScan(d time.Duration) {
	if m == nil {
		return
	}
	m.scanDuration.Observe(d.Seconds())
}

// MessagePushed учитывает опубликованное сообщение.
func (m *Metrics) MessagePushed(queue string) {
	if m == nil {
		return
	}
	m.messagesPushed.WithLabelValues(queue).Inc()
}

// MessageConsumed учитывает подтверждённое сообщение.
func (m *Metrics) MessageConsumed(queue string) {
	if m == nil {
		return
	}
	m.messagesConsumed.WithLabelValues(queue).Inc()
}

// MessageInvalid учитывает сообщение, которое не удалось десериализовать.
func (m *Metrics) MessageInvalid(queue string) {
	if m == nil {
		return
	}
	m.invalidMessages.WithLabelValues(queue).Inc()
}

// ReadMiss учитывает чтение из пустой очереди.
func (m *Metrics) ReadMiss(queue string) {
	if m == nil {
		return
	}
	m.readMisses.WithLabelValues(queue).Inc()
}
