// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime control surface for the reactor: typed tunables with
// hot-reload notification, monotonic counters for the hot paths,
// probe-based introspection of a running server, and the
// level-filtered logger the core reports through.
package control
