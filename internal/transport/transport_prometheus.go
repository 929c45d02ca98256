package transport

import "github.com/prometheus/client_golang/prometheus"

const (
	directionSend    = "send"
	directionReceive = "receive"
)

var prom struct {
	messages   *prometheus.CounterVec
	bytes      *prometheus.CounterVec
	leaseWaits prometheus.Summary
	failures   prometheus.Counter
}

func init() {
	prom.messages = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "socketrpc",
		Subsystem: "transport",
		Name:      "messages_total",
		Help:      "Number of messages sent or received on stream connections",
	}, []string{"direction"})
	prom.bytes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "socketrpc",
		Subsystem: "transport",
		Name:      "message_bytes_total",
		Help:      "Encoded message bytes sent or received on stream connections, excluding framing",
	}, []string{"direction"})
	prom.leaseWaits = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace: "socketrpc",
		Subsystem: "transport",
		Name:      "persistent_lease_wait_seconds",
		Help:      "Seconds spent waiting for the persistent connection to become available",
	})
	prom.failures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "socketrpc",
		Subsystem: "transport",
		Name:      "persistent_failures_total",
		Help:      "Number of times a persistent connection broke. Should alert on this",
	})
}

func PrometheusRegister(registry prometheus.Registerer) error {
	if err := registry.Register(prom.messages); err != nil {
		return err
	}
	if err := registry.Register(prom.bytes); err != nil {
		return err
	}
	if err := registry.Register(prom.leaseWaits); err != nil {
		return err
	}
	if err := registry.Register(prom.failures); err != nil {
		return err
	}
	return nil
}
