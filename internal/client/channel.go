package client

import (
	"time"

	"github.com/pkg/errors"

	"github.com/socketrpc/socketrpc/internal/config"
	"github.com/socketrpc/socketrpc/internal/logger"
	"github.com/socketrpc/socketrpc/internal/logging"
	"github.com/socketrpc/socketrpc/internal/rpc"
	"github.com/socketrpc/socketrpc/internal/transport"
	"github.com/socketrpc/socketrpc/internal/transport/fromconfig"
)

func loggerFromConfig(conf *config.Config) (logger.Logger, error) {
	outlets, err := logging.OutletsFromConfig(*conf.Global.Logging)
	if err != nil {
		return nil, errors.Wrap(err, "cannot build logging from config")
	}
	return logging.LogSubsystem(logger.NewLogger(outlets, 1*time.Second), logging.SubsysClient), nil
}

// clientChannel is a channel built from the client section of the config.
// close must be called once the channel is no longer used.
type clientChannel struct {
	*rpc.Channel
	close func()
}

func channelFromConfig(in *config.Client, log logger.Logger) (*clientChannel, error) {
	if in == nil {
		return nil, errors.New("config has no client section")
	}
	factory := fromconfig.ConnecterFromConfig(in)
	closers := []func(){}
	if pf, ok := factory.(*transport.PersistentFactory); ok {
		closers = append(closers, func() {
			if err := pf.Close(); err != nil {
				log.WithError(err).Warn("cannot close persistent connection")
			}
		})
	}

	var ch *rpc.Channel
	if in.CompletionWorkers > 0 {
		pool := rpc.NewWorkerPool(in.CompletionWorkers)
		closers = append(closers, func() {
			pool.Shutdown()
			pool.Wait()
		})
		ch = rpc.NewChannelWithExecutor(factory, pool, log)
	} else {
		ch = rpc.NewChannel(factory, log)
	}

	return &clientChannel{
		Channel: ch,
		close: func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		},
	}, nil
}

// failure describes a failed call by its controller.
func failure(c *rpc.Controller) error {
	reason, ok := c.ErrorReason()
	if !ok {
		return errors.Errorf("call failed: %s", c.ErrorText())
	}
	return errors.Errorf("call failed (%s): %s", reason, c.ErrorText())
}
