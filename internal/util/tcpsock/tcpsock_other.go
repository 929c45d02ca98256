// +build !linux

package tcpsock

import (
	"fmt"
	"net"
	"syscall"
)

func freeBind(network, address string, c syscall.RawConn) error {
	return fmt.Errorf("IP_FREEBIND equivalent functionality not supported on this platform")
}

// The OS default backlog applies.
func setBacklog(l *net.TCPListener, backlog int) error {
	return nil
}
