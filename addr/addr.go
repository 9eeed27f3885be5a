// File: addr/addr.go
// Author: momentics <momentics@gmail.com>
//
// Package addr provides the InetAddress value type: a minimal IPv4
// host:port pair built on golang.org/x/sys/unix.SockaddrInet4, since
// that is what transport/tcp.Socket.Accept already returns.
package addr

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// InetAddress is an IPv4 address and port.
type InetAddress struct {
	IP   [4]byte
	Port uint16
}

// FromSockaddr converts a unix.Sockaddr returned by accept(2) into an
// InetAddress. Non-IPv4 sockaddrs are rejected; the reactor core only
// deals in AF_INET.
func FromSockaddr(sa unix.Sockaddr) (InetAddress, error) {
	v4, ok := sa.(*unix.SockaddrInet4)
	if !ok {
		return InetAddress{}, fmt.Errorf("addr: unsupported sockaddr type %T", sa)
	}
	return InetAddress{IP: v4.Addr, Port: uint16(v4.Port)}, nil
}

// ToIPPort renders the address as "a.b.c.d:port".
func (a InetAddress) ToIPPort() string {
	return fmt.Sprintf("%d.%d.%d.%d:%d", a.IP[0], a.IP[1], a.IP[2], a.IP[3], a.Port)
}

func (a InetAddress) String() string { return a.ToIPPort() }
