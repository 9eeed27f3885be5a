// File: conn/conn.go
// Author: momentics <momentics@gmail.com>
//
// Package conn binds accepted fds to Channels on their worker loops.
// It deliberately stops short of full buffering, half-close sequencing
// and high-water-mark back-pressure; Connection carries only the
// ownership rule the reactor cares about: a connection's fd and Channel
// belong to exactly one worker loop and are only ever touched on that
// loop's goroutine.
package conn

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/momentics/reactorcore/addr"
	"github.com/momentics/reactorcore/core/concurrency"
	"github.com/momentics/reactorcore/pool"
	"github.com/momentics/reactorcore/reactor"
)

// CloseCallback is invoked once, on the owning loop, after the
// connection's fd has been closed.
type CloseCallback func(c *Connection)

// Connection binds one accepted fd to a Channel on its owning worker
// loop. It does not implement buffering or back-pressure; onReadable
// is handed the raw bytes read from a single non-blocking read and is
// responsible for anything past that.
type Connection struct {
	loop    *concurrency.EventLoop
	fd      int
	peer    addr.InetAddress
	channel *reactor.Channel
	bufs    *pool.BytePool

	onReadable func(c *Connection, data []byte)
	onClose    CloseCallback

	closed bool
}

// NewConnection wraps connFd (already accepted, non-blocking) in a
// Channel owned by loop. Must be called from loop's own goroutine.
func NewConnection(loop *concurrency.EventLoop, connFd int, peer addr.InetAddress, bufs *pool.BytePool) *Connection {
	c := &Connection{
		loop: loop,
		fd:   connFd,
		peer: peer,
		bufs: bufs,
	}
	c.channel = reactor.NewChannel(loop, connFd)
	c.channel.SetReadCallback(c.handleRead)
	c.channel.SetCloseCallback(c.handleClose)
	c.channel.SetErrorCallback(c.handleError)
	return c
}

// SetReadCallback installs the handler invoked with each chunk of bytes
// read from the connection.
func (c *Connection) SetReadCallback(cb func(c *Connection, data []byte)) {
	c.onReadable = cb
}

// SetCloseCallback installs the handler invoked once the connection has
// been closed.
func (c *Connection) SetCloseCallback(cb CloseCallback) { c.onClose = cb }

// Start enables read notifications. Must be called from the owning
// loop's goroutine, after the callbacks are installed.
func (c *Connection) Start() {
	c.loop.AssertInLoopThread()
	c.channel.EnableReading()
}

// Peer returns the connection's peer address.
func (c *Connection) Peer() addr.InetAddress { return c.peer }

// Write performs one non-blocking write attempt. Partial writes and
// back-pressure beyond a single syscall are out of scope here; a full
// connection implementation would queue the remainder and enable
// writing on the channel until it drains.
func (c *Connection) Write(data []byte) (int, error) {
	c.loop.AssertInLoopThread()
	return unix.Write(c.fd, data)
}

func (c *Connection) handleRead(time.Time) {
	buf := c.bufs.GetBuffer()
	defer c.bufs.PutBuffer(buf)
	n, err := unix.Read(c.fd, buf)
	if n > 0 && c.onReadable != nil {
		c.onReadable(c, buf[:n])
	}
	if n == 0 || (err != nil && err != unix.EAGAIN && err != unix.EWOULDBLOCK) {
		c.handleClose()
	}
}

func (c *Connection) handleError() {
	// Errno detail is not surfaced further here; a full implementation
	// would inspect SO_ERROR and report it to onClose.
	c.handleClose()
}

func (c *Connection) handleClose() {
	if c.closed {
		return
	}
	c.closed = true
	c.channel.DisableAll()
	c.channel.Remove()
	unix.Close(c.fd)
	if c.onClose != nil {
		c.onClose(c)
	}
}
