//go:build linux

package main

import (
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

// pinToCPU locks the calling goroutine to a dedicated OS thread pinned to
// cpuID.
func pinToCPU(cpuID int) {
	runtime.LockOSThread()

	var cpuset unix.CPUSet
	cpuset.Zero()
	cpuset.Set(cpuID % runtime.NumCPU())
	if err := unix.SchedSetaffinity(0, &cpuset); err != nil {
		log.Error().Err(err).Msgf("failed to set CPU affinity to CPU %d", cpuID)
		// Continue without affinity rather than crashing.
	}
}
