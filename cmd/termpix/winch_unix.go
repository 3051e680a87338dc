//go:build unix

package main

import (
	"os"
	"os/signal"
	"syscall"
)

// notifyResize subscribes to terminal resize signals. The returned stop
// function releases the subscription.
func notifyResize() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	return ch, func() { signal.Stop(ch) }
}
