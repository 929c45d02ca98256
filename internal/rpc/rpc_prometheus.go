package rpc

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/socketrpc/socketrpc/internal/rpcpb"
)

const reasonOK = "OK"

var prom struct {
	serverRequests  *prometheus.CounterVec
	serverHandling  prometheus.Histogram
	channelCalls    *prometheus.CounterVec
	channelDuration prometheus.Histogram
}

func init() {
	prom.serverRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "socketrpc",
		Subsystem: "server",
		Name:      "requests_total",
		Help:      "Number of exchanges handled by the server, by error reason",
	}, []string{"reason"})
	prom.serverHandling = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "socketrpc",
		Subsystem: "server",
		Name:      "handler_duration_seconds",
		Help:      "Seconds from accepting a connection until the response was sent",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
	})
	prom.channelCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "socketrpc",
		Subsystem: "channel",
		Name:      "calls_total",
		Help:      "Number of calls made through channels, by error reason",
	}, []string{"reason"})
	prom.channelDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "socketrpc",
		Subsystem: "channel",
		Name:      "call_duration_seconds",
		Help:      "Seconds spent per call, including connection setup",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
	})
}

func PrometheusRegister(registry prometheus.Registerer) error {
	if err := registry.Register(prom.serverRequests); err != nil {
		return err
	}
	if err := registry.Register(prom.serverHandling); err != nil {
		return err
	}
	if err := registry.Register(prom.channelCalls); err != nil {
		return err
	}
	if err := registry.Register(prom.channelDuration); err != nil {
		return err
	}
	return nil
}

func responseReasonLabel(resp *rpcpb.Response) string {
	if !resp.HasError() {
		return reasonOK
	}
	return resp.GetErrorReason().String()
}
