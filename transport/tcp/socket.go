// File: transport/tcp/socket.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Socket wraps the handful of syscalls an Acceptor needs: non-blocking
// socket creation, reuse-addr, bind, listen, accept. Thin wrappers over
// golang.org/x/sys/unix, nothing more.

package tcp

import (
	"golang.org/x/sys/unix"
)

// Socket owns exactly one listening-socket fd for its whole lifetime.
type Socket struct {
	fd int
}

// newNonblockingSocket creates a non-blocking, close-on-exec IPv4
// stream socket.
func newNonblockingSocket() (*Socket, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	return &Socket{fd: fd}, nil
}

// SetReuseAddr matches SO_REUSEADDR.
func (s *Socket) SetReuseAddr(on bool) error {
	v := 0
	if on {
		v = 1
	}
	return unix.SetsockoptInt(s.fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, v)
}

// Bind binds to addr:port; only 0.0.0.0 covers all interfaces.
func (s *Socket) Bind(addr [4]byte, port uint16) error {
	sa := &unix.SockaddrInet4{Port: int(port), Addr: addr}
	return unix.Bind(s.fd, sa)
}

// Listen matches listen(2) with a conventional backlog.
func (s *Socket) Listen() error {
	return unix.Listen(s.fd, unix.SOMAXCONN)
}

// Accept returns the accepted connection's fd and its peer address, or
// an error (including EAGAIN, which the caller treats as "stop
// accepting this wake").
func (s *Socket) Accept() (connFd int, peerAddr unix.Sockaddr, err error) {
	return unix.Accept4(s.fd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
}

// Fd returns the underlying fd.
func (s *Socket) Fd() int { return s.fd }

// Close closes the socket.
func (s *Socket) Close() error { return unix.Close(s.fd) }
