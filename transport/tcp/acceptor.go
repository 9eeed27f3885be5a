// File: transport/tcp/acceptor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Acceptor is a listening socket bound to a loop via a Channel, whose
// read handler accepts in a loop until EAGAIN and hands each connection
// off to onNewConnection. Close only disables the channel and closes
// the listen fd; it never touches the host loop's lifecycle.

package tcp

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/momentics/reactorcore/control"
	"github.com/momentics/reactorcore/core/concurrency"
	"github.com/momentics/reactorcore/reactor"
)

// NewConnectionCallback is invoked on the acceptor's loop thread for
// each accepted connection.
type NewConnectionCallback func(connFd int, peer unix.Sockaddr)

// Acceptor owns a listening socket and the Channel that watches it.
type Acceptor struct {
	loop      *concurrency.EventLoop
	sock      *Socket
	channel   *reactor.Channel
	listening bool
	onNewConn NewConnectionCallback

	// idleFd is a reserved, otherwise-unused fd held open so that when
	// accept(2) fails with EMFILE, it can be closed, accept retried
	// (succeeding, since a slot just freed up), and the connection
	// immediately closed again. Without it the listening fd stays
	// readable forever with no free fd to accept into, and the loop
	// busy-spins.
	idleFd int
}

// NewAcceptor creates a non-blocking, reuse-addr listening socket bound
// to addr:port and a Channel for it, owned by loop. It does not touch
// loop's state, so it may be called while loop runs on another
// goroutine; Listen is what must run on the loop's goroutine.
func NewAcceptor(loop *concurrency.EventLoop, addr [4]byte, port uint16) (*Acceptor, error) {
	sock, err := newNonblockingSocket()
	if err != nil {
		return nil, err
	}
	if err := sock.SetReuseAddr(true); err != nil {
		sock.Close()
		return nil, err
	}
	if err := sock.Bind(addr, port); err != nil {
		sock.Close()
		return nil, err
	}

	idleFd, err := unix.Open("/dev/null", unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		sock.Close()
		return nil, err
	}

	a := &Acceptor{
		loop:   loop,
		sock:   sock,
		idleFd: idleFd,
	}
	a.channel = reactor.NewChannel(loop, sock.Fd())
	a.channel.SetReadCallback(a.handleRead)
	return a, nil
}

// SetNewConnectionCallback installs the callback invoked per accepted
// connection. Must be set before Listen.
func (a *Acceptor) SetNewConnectionCallback(cb NewConnectionCallback) {
	a.onNewConn = cb
}

// Listening reports whether Listen has been called.
func (a *Acceptor) Listening() bool { return a.listening }

// Listen starts listening and enables read notifications. Must be
// called from the owning loop's goroutine.
func (a *Acceptor) Listen() error {
	a.loop.AssertInLoopThread()
	a.listening = true
	if err := a.sock.Listen(); err != nil {
		return err
	}
	a.channel.EnableReading()
	return nil
}

// handleRead accepts connections until accept(2) would block, handing
// each off to onNewConn or closing it immediately if no callback is
// set. It never starves the loop: exhausting the accept backlog always
// terminates in EAGAIN, not an unbounded retry.
func (a *Acceptor) handleRead(time.Time) {
	a.loop.AssertInLoopThread()
	for {
		connFd, peer, err := a.sock.Accept()
		if err != nil {
			if err == unix.EMFILE {
				control.Default().Syserr("acceptor: accept: too many open files")
				a.handleEMFILE()
				continue
			}
			if err != unix.EAGAIN && err != unix.EWOULDBLOCK {
				control.Default().Syserr("acceptor: accept: %v", err)
			}
			return
		}
		if a.onNewConn != nil {
			a.onNewConn(connFd, peer)
		} else {
			unix.Close(connFd)
		}
	}
}

func (a *Acceptor) handleEMFILE() {
	unix.Close(a.idleFd)
	connFd, _, err := a.sock.Accept()
	if err == nil {
		unix.Close(connFd)
	}
	a.idleFd, _ = unix.Open("/dev/null", unix.O_RDONLY|unix.O_CLOEXEC, 0)
}

// Close disables the channel and closes the listening fd and the
// reserved idle fd. Does not touch the owning loop's lifecycle.
func (a *Acceptor) Close() error {
	a.channel.DisableAll()
	a.channel.Remove()
	unix.Close(a.idleFd)
	return a.sock.Close()
}
