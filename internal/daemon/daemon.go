package daemon

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/socketrpc/socketrpc/internal/config"
	"github.com/socketrpc/socketrpc/internal/logger"
	"github.com/socketrpc/socketrpc/internal/logging"
	"github.com/socketrpc/socketrpc/internal/rpc"
	"github.com/socketrpc/socketrpc/internal/transport"
)

func Run(ctx context.Context, conf *config.Config) error {
	ctx, cancel := context.WithCancel(ctx)

	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if conf.Server == nil {
		return errors.New("config has no server section")
	}

	outlets, err := logging.OutletsFromConfig(*conf.Global.Logging)
	if err != nil {
		return errors.Wrap(err, "cannot build logging from config")
	}
	outlets.Add(newPrometheusLogOutlet(), logger.Debug)
	log := logger.NewLogger(outlets, 1*time.Second)

	if err := registerMetrics(prometheus.DefaultRegisterer); err != nil {
		return errors.Wrap(err, "cannot register metrics")
	}

	var monitoring []*prometheusJob
	for i, mc := range conf.Global.Monitoring {
		switch v := mc.Ret.(type) {
		case *config.PrometheusMonitoring:
			job, err := newPrometheusJobFromConfig(v)
			if err != nil {
				return errors.Wrapf(err, "cannot build monitoring job #%d", i)
			}
			monitoring = append(monitoring, job)
		default:
			return errors.Errorf("unknown monitoring job #%d (type %T)", i, v)
		}
	}

	srv, err := newServer(conf.Server, log)
	if err != nil {
		return errors.Wrap(err, "cannot build server from config")
	}

	dlog := logging.LogSubsystem(log, logging.SubsysDaemon)
	var wg sync.WaitGroup
	for _, job := range monitoring {
		wg.Add(1)
		go func(job *prometheusJob) {
			defer wg.Done()
			job.Run(ctx, dlog)
		}(job)
	}

	dlog.WithField("address", srv.address).Info("starting server")
	err = srv.Serve(ctx)
	cancel()
	dlog.Info("waiting for monitoring to finish")
	wg.Wait()
	if err != nil {
		return errors.Wrap(err, "server failed")
	}
	dlog.Info("daemon exiting")
	return nil
}

// registerMetrics registers the metrics of all packages that have some.
func registerMetrics(registry prometheus.Registerer) error {
	if err := transport.PrometheusRegister(registry); err != nil {
		return err
	}
	if err := rpc.PrometheusRegister(registry); err != nil {
		return err
	}
	return nil
}
