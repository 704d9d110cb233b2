//go:build !linux

package main

import "runtime"

// pinToCPU locks the calling goroutine to an OS thread. CPU affinity is
// only available on linux.
func pinToCPU(int) {
	runtime.LockOSThread()
}
