package daemon

import (
	"context"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/socketrpc/socketrpc/internal/config"
	"github.com/socketrpc/socketrpc/internal/logger"
	"github.com/socketrpc/socketrpc/internal/logging"
	"github.com/socketrpc/socketrpc/internal/util/tcpsock"
)

type prometheusJob struct {
	listen string
}

func newPrometheusJobFromConfig(in *config.PrometheusMonitoring) (*prometheusJob, error) {
	_, _, err := net.SplitHostPort(in.Listen)
	if err != nil {
		return nil, err
	}
	return &prometheusJob{listen: in.Listen}, nil
}

var prom struct {
	logEntries *prometheus.CounterVec
}

func init() {
	prom.logEntries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "socketrpc",
		Subsystem: "daemon",
		Name:      "log_entries",
		Help:      "number of log entries per subsystem and level",
	}, []string{"subsystem", "level"})
	prometheus.MustRegister(prom.logEntries)
}

func (j *prometheusJob) Run(ctx context.Context, log logger.Logger) {
	log = log.WithField("listen", j.listen)

	l, err := tcpsock.Listen(j.listen, 0, false)
	if err != nil {
		log.WithError(err).Error("cannot listen")
		return
	}
	go func() {
		<-ctx.Done()
		l.Close()
	}()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Handler: mux}
	err = server.Serve(l)
	if err != nil && ctx.Err() == nil {
		log.WithError(err).Error("error while serving")
	}
}

type prometheusLogOutlet struct{}

var _ logger.Outlet = prometheusLogOutlet{}

func newPrometheusLogOutlet() prometheusLogOutlet {
	return prometheusLogOutlet{}
}

func (o prometheusLogOutlet) WriteEntry(entry logger.Entry) error {
	subsys, ok := entry.Fields[logging.SubsysField].(string)
	if !ok {
		subsys = "_nosubsystem"
	}
	prom.logEntries.WithLabelValues(subsys, entry.Level.String()).Inc()
	return nil
}
