package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"github.com/socketrpc/socketrpc/internal/config"
	"github.com/socketrpc/socketrpc/internal/logger"
)

func OutletsFromConfig(in config.LoggingOutletEnumList) (*logger.Outlets, error) {

	outlets := logger.NewOutlets()

	if len(in) == 0 {
		// Default config
		out := NewWriterOutlet(&HumanFormatter{}, os.Stdout)
		outlets.Add(out, logger.Warn)
		return outlets, nil
	}

	var stdoutOutlets int
	for lei, le := range in {

		outlet, minLevel, err := parseOutlet(le)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot parse outlet #%d", lei)
		}
		if _, ok := outlet.(WriterOutlet); ok {
			stdoutOutlets++
		}

		outlets.Add(outlet, minLevel)

	}

	if stdoutOutlets > 1 {
		return nil, errors.Errorf("can only define one 'stdout' outlet")
	}

	return outlets, nil

}

type Subsystem string

const (
	SubsysServer    Subsystem = "rpc.server"
	SubsysChannel   Subsystem = "rpc.channel"
	SubsysForwarder Subsystem = "rpc.forwarder"
	SubsysTransport Subsystem = "transport"
	SubsysDaemon    Subsystem = "daemon"
	SubsysClient    Subsystem = "client"
)

func LogSubsystem(log logger.Logger, subsys Subsystem) logger.Logger {
	return log.ReplaceField(SubsysField, string(subsys))
}

func parseLogFormat(i interface{}) (f EntryFormatter, err error) {
	var is string
	switch j := i.(type) {
	case string:
		is = j
	default:
		return nil, errors.Errorf("invalid log format: wrong type: %T", i)
	}

	switch is {
	case "human":
		return &HumanFormatter{}, nil
	case "logfmt":
		return &LogfmtFormatter{}, nil
	case "json":
		return &JSONFormatter{}, nil
	default:
		return nil, errors.Errorf("invalid log format: '%s'", is)
	}

}

func parseOutlet(in config.LoggingOutletEnum) (o logger.Outlet, level logger.Level, err error) {

	parseCommon := func(common config.LoggingOutletCommon) (logger.Level, EntryFormatter, error) {
		if common.Level == "" || common.Format == "" {
			return 0, nil, errors.Errorf("must specify 'level' and 'format' field")
		}

		minLevel, err := logger.ParseLevel(common.Level)
		if err != nil {
			return 0, nil, errors.Wrap(err, "cannot parse 'level' field")
		}
		formatter, err := parseLogFormat(common.Format)
		if err != nil {
			return 0, nil, errors.Wrap(err, "cannot parse 'formatter' field")
		}
		return minLevel, formatter, nil
	}

	var f EntryFormatter

	switch v := in.Ret.(type) {
	case *config.StdoutLoggingOutlet:
		level, f, err = parseCommon(v.LoggingOutletCommon)
		if err != nil {
			break
		}
		o = parseStdoutOutlet(v, f, isatty.IsTerminal(os.Stdout.Fd()))
	case *config.TCPLoggingOutlet:
		level, f, err = parseCommon(v.LoggingOutletCommon)
		if err != nil {
			break
		}
		f.SetMetadataFlags(MetadataAll &^ MetadataColor)
		o = NewTCPOutlet(f, v.Net, v.Address, v.RetryInterval)
	default:
		panic(v)
	}
	return o, level, err
}

func parseStdoutOutlet(in *config.StdoutLoggingOutlet, formatter EntryFormatter, terminal bool) WriterOutlet {
	flags := MetadataAll
	if !terminal {
		flags &^= MetadataColor
		if !in.Time {
			flags &^= MetadataTime
		}
	}
	if terminal && !in.Color {
		flags &^= MetadataColor
	}

	formatter.SetMetadataFlags(flags)
	return NewWriterOutlet(formatter, os.Stdout)
}
