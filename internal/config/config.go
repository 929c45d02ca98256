package config

import (
	"fmt"
	"io/ioutil"
	"net"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/zrepl/yaml-config"
)

type Config struct {
	Global *Global `yaml:"global,optional,fromdefaults"`
	Server *Server `yaml:"server,optional"`
	Client *Client `yaml:"client,optional"`
}

type Global struct {
	Logging    *LoggingOutletEnumList `yaml:"logging,optional,fromdefaults"`
	Monitoring []MonitoringEnum       `yaml:"monitoring,optional"`
}

func Default(i interface{}) {
	v := reflect.ValueOf(i)
	if v.Kind() != reflect.Ptr {
		panic(v)
	}
	y := `{}`
	err := yaml.Unmarshal([]byte(y), v.Interface())
	if err != nil {
		panic(err)
	}
}

const (
	DispatchBlocking = "blocking"
	DispatchAsync    = "async"
)

type Server struct {
	Serve      ServeEnum `yaml:"serve"`
	Delimited  bool      `yaml:"delimited,optional,default=false"`
	Persistent bool      `yaml:"persistent,optional,default=false"`
	Dispatch   string    `yaml:"dispatch,optional,default=blocking"`
	// whether the server closes the connection once the service completed
	CloseConnectionAfterInvokingService bool `yaml:"close_connection_after_invoking_service,optional,default=true"`
	// 0 = one goroutine per connection
	Workers int `yaml:"workers,optional,default=0"`
	// accepted connections per second, 0 = unlimited
	AcceptRate  float64 `yaml:"accept_rate,optional,default=0"`
	AcceptBurst int     `yaml:"accept_burst,optional,default=1"`
}

type Client struct {
	Connect    ConnectEnum `yaml:"connect"`
	Delimited  bool        `yaml:"delimited,optional,default=false"`
	Persistent bool        `yaml:"persistent,optional,default=false"`
	// 0 = completions run inline on the calling goroutine
	CompletionWorkers int `yaml:"completion_workers,optional,default=0"`
}

type ServeEnum struct {
	Ret interface{}
}

type TCPServe struct {
	Type        string `yaml:"type"`
	Port        uint16 `yaml:"port"`
	BindAddress string `yaml:"bind_address,optional"`
	// 0 = OS default
	Backlog  int  `yaml:"backlog,optional,default=0"`
	FreeBind bool `yaml:"freebind,optional,default=false"`
}

func (s *TCPServe) Address() string {
	return net.JoinHostPort(s.BindAddress, PortString(s.Port))
}

func PortString(port uint16) string {
	return strconv.Itoa(int(port))
}

// LocalServe serves clients of the same process that connect by name.
type LocalServe struct {
	Type         string `yaml:"type"`
	ListenerName string `yaml:"listener_name"`
}

type ConnectEnum struct {
	Ret interface{}
}

type TCPConnect struct {
	Type string `yaml:"type"`
	Host string `yaml:"host"`
	Port uint16 `yaml:"port"`
}

func (c *TCPConnect) Address() string {
	return net.JoinHostPort(c.Host, PortString(c.Port))
}

type LocalConnect struct {
	Type         string `yaml:"type"`
	ListenerName string `yaml:"listener_name"`
}

type LoggingOutletEnumList []LoggingOutletEnum

func (l *LoggingOutletEnumList) SetDefault() {
	def := `
type: "stdout"
time: true
level: "warn"
format: "human"
`
	s := &StdoutLoggingOutlet{}
	err := yaml.UnmarshalStrict([]byte(def), &s)
	if err != nil {
		panic(err)
	}
	*l = []LoggingOutletEnum{LoggingOutletEnum{Ret: s}}
}

var _ yaml.Defaulter = &LoggingOutletEnumList{}

type LoggingOutletEnum struct {
	Ret interface{}
}

type LoggingOutletCommon struct {
	Type   string `yaml:"type"`
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type StdoutLoggingOutlet struct {
	LoggingOutletCommon `yaml:",inline"`
	Time                bool `yaml:"time,default=true"`
	Color               bool `yaml:"color,default=true"`
}

type TCPLoggingOutlet struct {
	LoggingOutletCommon `yaml:",inline"`
	Address             string        `yaml:"address"`
	Net                 string        `yaml:"net,default=tcp"`
	RetryInterval       time.Duration `yaml:"retry_interval,positive,default=10s"`
}

type MonitoringEnum struct {
	Ret interface{}
}

type PrometheusMonitoring struct {
	Type   string `yaml:"type"`
	Listen string `yaml:"listen"`
}

func enumUnmarshal(u func(interface{}, bool) error, types map[string]interface{}) (interface{}, error) {
	var in struct {
		Type string
	}
	if err := u(&in, true); err != nil {
		return nil, err
	}
	if in.Type == "" {
		return nil, &yaml.TypeError{Errors: []string{"must specify type"}}
	}

	v, ok := types[in.Type]
	if !ok {
		return nil, &yaml.TypeError{Errors: []string{fmt.Sprintf("invalid type name %q", in.Type)}}
	}
	if err := u(v, false); err != nil {
		return nil, err
	}
	return v, nil
}

func (t *ServeEnum) UnmarshalYAML(u func(interface{}, bool) error) (err error) {
	t.Ret, err = enumUnmarshal(u, map[string]interface{}{
		"tcp":   &TCPServe{},
		"local": &LocalServe{},
	})
	return
}

func (t *ConnectEnum) UnmarshalYAML(u func(interface{}, bool) error) (err error) {
	t.Ret, err = enumUnmarshal(u, map[string]interface{}{
		"tcp":   &TCPConnect{},
		"local": &LocalConnect{},
	})
	return
}

func (t *LoggingOutletEnum) UnmarshalYAML(u func(interface{}, bool) error) (err error) {
	t.Ret, err = enumUnmarshal(u, map[string]interface{}{
		"stdout": &StdoutLoggingOutlet{},
		"tcp":    &TCPLoggingOutlet{},
	})
	return
}

func (t *MonitoringEnum) UnmarshalYAML(u func(interface{}, bool) error) (err error) {
	t.Ret, err = enumUnmarshal(u, map[string]interface{}{
		"prometheus": &PrometheusMonitoring{},
	})
	return
}

var ConfigFileDefaultLocations = []string{
	"/etc/socketrpc/socketrpc.yml",
	"/usr/local/etc/socketrpc/socketrpc.yml",
}

func ParseConfig(path string) (i *Config, err error) {

	if path == "" {
		// Try default locations
		for _, l := range ConfigFileDefaultLocations {
			stat, statErr := os.Stat(l)
			if statErr != nil {
				continue
			}
			if !stat.Mode().IsRegular() {
				err = errors.Errorf("file at default location is not a regular file: %s", l)
				return
			}
			path = l
			break
		}
	}
	if path == "" {
		return nil, errors.Errorf("no config file found at default locations %v", ConfigFileDefaultLocations)
	}

	var bytes []byte

	if bytes, err = ioutil.ReadFile(path); err != nil {
		return
	}

	return ParseConfigBytes(bytes)
}

func ParseConfigBytes(bytes []byte) (*Config, error) {
	var c *Config
	if err := yaml.UnmarshalStrict(bytes, &c); err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("config is empty or only consists of comments")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.Server != nil {
		if err := c.Server.Validate(); err != nil {
			return errors.Wrap(err, "invalid 'server' section")
		}
	}
	if c.Client != nil {
		if err := c.Client.Validate(); err != nil {
			return errors.Wrap(err, "invalid 'client' section")
		}
	}
	for i, m := range c.Global.Monitoring {
		p := m.Ret.(*PrometheusMonitoring)
		if _, _, err := net.SplitHostPort(p.Listen); err != nil {
			return errors.Wrapf(err, "invalid 'listen' of monitoring #%d", i)
		}
	}
	return nil
}

func (s *Server) Validate() error {
	if s.Persistent && !s.Delimited {
		return errors.New("'persistent' requires 'delimited'")
	}
	switch s.Dispatch {
	case DispatchBlocking, DispatchAsync:
	default:
		return errors.Errorf("'dispatch' must be %q or %q, got %q", DispatchBlocking, DispatchAsync, s.Dispatch)
	}
	if s.Workers < 0 {
		return errors.New("'workers' must not be negative")
	}
	if s.AcceptRate < 0 {
		return errors.New("'accept_rate' must not be negative")
	}
	if s.AcceptRate > 0 && s.AcceptBurst < 1 {
		return errors.New("'accept_burst' must be at least 1")
	}
	switch serve := s.Serve.Ret.(type) {
	case *TCPServe:
		if serve.Port == 0 {
			return errors.New("'serve.port' must be set")
		}
		if serve.Backlog < 0 {
			return errors.New("'serve.backlog' must not be negative")
		}
	case *LocalServe:
		if serve.ListenerName == "" {
			return errors.New("'serve.listener_name' must be set")
		}
	}
	return nil
}

func (c *Client) Validate() error {
	if c.Persistent && !c.Delimited {
		return errors.New("'persistent' requires 'delimited'")
	}
	if c.CompletionWorkers < 0 {
		return errors.New("'completion_workers' must not be negative")
	}
	switch connect := c.Connect.Ret.(type) {
	case *TCPConnect:
		if connect.Host == "" {
			return errors.New("'connect.host' must be set")
		}
		if connect.Port == 0 {
			return errors.New("'connect.port' must be set")
		}
	case *LocalConnect:
		if connect.ListenerName == "" {
			return errors.New("'connect.listener_name' must be set")
		}
	}
	return nil
}
