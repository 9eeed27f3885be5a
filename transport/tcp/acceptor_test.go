// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package tcp

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/momentics/reactorcore/core/concurrency"
)

func TestAcceptorAcceptAndEcho(t *testing.T) {
	loop, err := concurrency.NewEventLoop()
	if err != nil {
		t.Fatalf("NewEventLoop: %v", err)
	}
	stopped := make(chan struct{})
	go func() {
		loop.Loop()
		close(stopped)
	}()
	time.Sleep(10 * time.Millisecond)

	acc, err := NewAcceptor(loop, [4]byte{127, 0, 0, 1}, 0)
	if err != nil {
		t.Fatalf("NewAcceptor: %v", err)
	}
	defer func() {
		loop.Quit()
		<-stopped
		acc.Close()
		loop.Close()
	}()

	var accepted atomic.Int64
	acc.SetNewConnectionCallback(func(connFd int, peer unix.Sockaddr) {
		accepted.Add(1)
		// Minimal inline echo: read once, write it back, then close.
		// The accepted fd is non-blocking, so spin past EAGAIN until
		// the client's payload lands.
		go func() {
			defer unix.Close(connFd)
			buf := make([]byte, 64)
			deadline := time.Now().Add(2 * time.Second)
			for {
				n, err := unix.Read(connFd, buf)
				if n > 0 {
					unix.Write(connFd, buf[:n])
					return
				}
				if err != nil && err != unix.EAGAIN && err != unix.EWOULDBLOCK {
					return
				}
				if n == 0 && err == nil || time.Now().After(deadline) {
					return
				}
				time.Sleep(time.Millisecond)
			}
		}()
	})

	var listenAddr unix.Sockaddr
	var listenErr error
	done := make(chan struct{})
	loop.RunInLoop(func() {
		listenErr = acc.Listen()
		listenAddr, _ = unix.Getsockname(acc.sock.Fd())
		close(done)
	})
	<-done
	if listenErr != nil {
		t.Fatalf("Listen: %v", listenErr)
	}

	v4, ok := listenAddr.(*unix.SockaddrInet4)
	if !ok {
		t.Fatalf("unexpected sockaddr type %T", listenAddr)
	}
	dialAddr := fmt.Sprintf("127.0.0.1:%d", v4.Port)

	const clients = 5
	var wg sync.WaitGroup
	wg.Add(clients)
	for i := 0; i < clients; i++ {
		go func() {
			defer wg.Done()
			conn, err := net.DialTimeout("tcp", dialAddr, 2*time.Second)
			if err != nil {
				t.Errorf("dial: %v", err)
				return
			}
			defer conn.Close()
			if _, err := conn.Write([]byte("ping")); err != nil {
				t.Errorf("write: %v", err)
				return
			}
			buf := make([]byte, 64)
			conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			n, err := conn.Read(buf)
			if err != nil {
				t.Errorf("read: %v", err)
				return
			}
			if string(buf[:n]) != "ping" {
				t.Errorf("got %q, want %q", buf[:n], "ping")
			}
		}()
	}
	wg.Wait()

	if accepted.Load() != clients {
		t.Fatalf("got %d accepted connections, want %d", accepted.Load(), clients)
	}
}
