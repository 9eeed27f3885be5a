// Author: momentics <momentics@gmail.com>

package conn

import (
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/momentics/reactorcore/addr"
	"github.com/momentics/reactorcore/core/concurrency"
	"github.com/momentics/reactorcore/pool"
)

func socketpair(t *testing.T) (local, remote int) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK, 0)
	if err != nil {
		t.Fatalf("socketpair: %v", err)
	}
	return fds[0], fds[1]
}

func TestConnectionReadAndClose(t *testing.T) {
	loop, err := concurrency.NewEventLoop()
	if err != nil {
		t.Fatalf("NewEventLoop: %v", err)
	}
	stopped := make(chan struct{})
	go func() {
		loop.Loop()
		close(stopped)
	}()
	defer func() {
		loop.Quit()
		<-stopped
		loop.Close()
	}()
	time.Sleep(10 * time.Millisecond)

	local, remote := socketpair(t)
	defer unix.Close(remote)

	bufs := pool.NewBytePool(4096)
	read := make(chan string, 4)
	closed := make(chan struct{})

	loop.RunInLoop(func() {
		c := NewConnection(loop, local, addr.InetAddress{}, bufs)
		c.SetReadCallback(func(c *Connection, data []byte) {
			read <- string(data)
		})
		c.SetCloseCallback(func(c *Connection) {
			close(closed)
		})
		c.Start()
	})

	if _, err := unix.Write(remote, []byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case got := <-read:
		if got != "hello" {
			t.Fatalf("got %q, want %q", got, "hello")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for read callback")
	}

	// Closing the remote end must surface as the close callback, not an
	// endless stream of zero-length reads.
	unix.Shutdown(remote, unix.SHUT_WR)
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for close callback")
	}
}

func TestConnectionEchoWrite(t *testing.T) {
	loop, err := concurrency.NewEventLoop()
	if err != nil {
		t.Fatalf("NewEventLoop: %v", err)
	}
	stopped := make(chan struct{})
	go func() {
		loop.Loop()
		close(stopped)
	}()
	defer func() {
		loop.Quit()
		<-stopped
		loop.Close()
	}()
	time.Sleep(10 * time.Millisecond)

	local, remote := socketpair(t)
	defer unix.Close(remote)

	bufs := pool.NewBytePool(4096)
	loop.RunInLoop(func() {
		c := NewConnection(loop, local, addr.InetAddress{}, bufs)
		c.SetReadCallback(func(c *Connection, data []byte) {
			c.Write(data)
		})
		c.Start()
	})

	if _, err := unix.Write(remote, []byte("ping")); err != nil {
		t.Fatalf("write: %v", err)
	}

	buf := make([]byte, 16)
	deadline := time.Now().Add(2 * time.Second)
	for {
		n, err := unix.Read(remote, buf)
		if n > 0 {
			if string(buf[:n]) != "ping" {
				t.Fatalf("got %q, want %q", buf[:n], "ping")
			}
			return
		}
		if err != nil && err != unix.EAGAIN && err != unix.EWOULDBLOCK {
			t.Fatalf("read: %v", err)
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for echo")
		}
		time.Sleep(time.Millisecond)
	}
}
