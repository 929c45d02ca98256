package daemon

import (
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/socketrpc/socketrpc/internal/config"
	"github.com/socketrpc/socketrpc/internal/examples/helloworld"
	"github.com/socketrpc/socketrpc/internal/examples/timeservice"
	"github.com/socketrpc/socketrpc/internal/logger"
	"github.com/socketrpc/socketrpc/internal/logging"
	"github.com/socketrpc/socketrpc/internal/rpc"
	"github.com/socketrpc/socketrpc/internal/transport/fromconfig"
	"github.com/socketrpc/socketrpc/internal/util/envconst"
)

type server struct {
	*rpc.Server
	address string
}

func serverConfigFromConfig(in *config.Server) (rpc.ServerConfig, error) {
	sc := rpc.ServerConfig{
		CloseConnectionAfterInvokingService: in.CloseConnectionAfterInvokingService,
	}
	switch in.Dispatch {
	case config.DispatchBlocking:
		sc.Dispatch = rpc.DispatchBlocking
	case config.DispatchAsync:
		sc.Dispatch = rpc.DispatchAsync
	default:
		return sc, errors.Errorf("unknown dispatch mode %q", in.Dispatch)
	}
	if in.AcceptRate > 0 {
		sc.AcceptLimiter = rate.NewLimiter(rate.Limit(in.AcceptRate), in.AcceptBurst)
	}
	return sc, nil
}

func executorFromConfig(in *config.Server) rpc.Executor {
	workers := in.Workers
	if workers == 0 {
		workers = envconst.Int("SOCKETRPC_SERVER_WORKERS", 0)
	}
	if workers > 0 {
		return rpc.NewWorkerPool(workers)
	}
	return rpc.NewGoExecutor()
}

// newServer listens and registers the example services.
func newServer(in *config.Server, log logger.Logger) (*server, error) {
	sc, err := serverConfigFromConfig(in)
	if err != nil {
		return nil, err
	}
	factory, address, err := fromconfig.ServerFactoryFromConfig(in)
	if err != nil {
		return nil, err
	}

	s := rpc.NewServer(factory, executorFromConfig(in), sc, log)
	helloDelay := envconst.Duration("SOCKETRPC_HELLOWORLD_DELAY", 0)
	s.RegisterService(helloworld.NewService(helloDelay, logging.LogSubsystem(log, logging.SubsysServer)))
	s.RegisterBlockingService(timeservice.NewService(time.Now))
	return &server{s, address}, nil
}
