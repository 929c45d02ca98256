// +build linux

package tcpsock

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

func freeBind(network, address string, c syscall.RawConn) error {
	var err, sockerr error
	err = c.Control(func(fd uintptr) {
		// apparently, this works for both IPv4 and IPv6
		sockerr = unix.SetsockoptInt(int(fd), unix.SOL_IP, unix.IP_FREEBIND, 1)
	})
	if err != nil {
		return err
	}
	return sockerr
}

// Calling listen(2) on a listening socket updates its backlog.
func setBacklog(l *net.TCPListener, backlog int) error {
	rc, err := l.SyscallConn()
	if err != nil {
		return err
	}
	var sockerr error
	err = rc.Control(func(fd uintptr) {
		sockerr = unix.Listen(int(fd), backlog)
	})
	if err != nil {
		return err
	}
	return sockerr
}
