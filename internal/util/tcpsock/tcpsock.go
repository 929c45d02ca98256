// Package tcpsock creates TCP listeners with socket options net.Listen does not expose.
package tcpsock

import (
	"context"
	"net"
	"syscall"
)

// Listen listens on address. backlog <= 0 keeps the OS default.
func Listen(address string, backlog int, tryFreeBind bool) (*net.TCPListener, error) {
	control := func(network, address string, c syscall.RawConn) error {
		if tryFreeBind {
			if err := freeBind(network, address, c); err != nil {
				return err
			}
		}
		return nil
	}
	var listenConfig = net.ListenConfig{
		Control: control,
	}

	l, err := listenConfig.Listen(context.Background(), "tcp", address)
	if err != nil {
		return nil, err
	}
	tl := l.(*net.TCPListener)
	if backlog > 0 {
		if err := setBacklog(tl, backlog); err != nil {
			tl.Close()
			return nil, err
		}
	}
	return tl, nil
}
