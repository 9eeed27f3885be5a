// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package tcp implements the listening side of the reactor: a
// non-blocking listening Socket and the Acceptor that watches it
// through a Channel, handing each accepted (fd, peer) pair to the
// callback that places the connection on a worker loop.
package tcp
