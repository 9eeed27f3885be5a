// Author: momentics <momentics@gmail.com>

package addr

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestFromSockaddrAndToIPPort(t *testing.T) {
	sa := &unix.SockaddrInet4{Port: 8080, Addr: [4]byte{192, 168, 1, 2}}
	a, err := FromSockaddr(sa)
	if err != nil {
		t.Fatalf("FromSockaddr: %v", err)
	}
	if got, want := a.ToIPPort(), "192.168.1.2:8080"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFromSockaddrRejectsNonIPv4(t *testing.T) {
	sa := &unix.SockaddrInet6{Port: 8080}
	if _, err := FromSockaddr(sa); err == nil {
		t.Fatal("expected error for IPv6 sockaddr")
	}
}
