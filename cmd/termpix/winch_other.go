//go:build !unix

package main

import "os"

// notifyResize has no signal to watch here; a nil channel never fires.
func notifyResize() (<-chan os.Signal, func()) {
	return nil, func() {}
}
