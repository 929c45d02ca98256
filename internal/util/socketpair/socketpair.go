package socketpair

import (
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// SocketPair returns two connected AF_UNIX stream sockets.
// Unlike net.Pipe, both ends support half-close through CloseWrite.
func SocketPair() (a, b *net.UnixConn, err error) {
	sockpair, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, nil, err
	}
	toConn := func(fd int) (*net.UnixConn, error) {
		f := os.NewFile(uintptr(fd), "socketpair")
		if f == nil {
			panic(fd)
		}
		// net.FileConn dups the descriptor
		defer f.Close()
		c, err := net.FileConn(f)
		if err != nil {
			return nil, err
		}
		return c.(*net.UnixConn), nil
	}
	if a, err = toConn(sockpair[0]); err != nil { // shadowing
		unix.Close(sockpair[1])
		return nil, nil, err
	}
	if b, err = toConn(sockpair[1]); err != nil { // shadowing
		a.Close()
		return nil, nil, err
	}
	return a, b, nil
}
