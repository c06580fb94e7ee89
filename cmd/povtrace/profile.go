package main

import (
	"os"
	"runtime/pprof"
)

// startCPUProfile opens path and starts CPU profiling, returning a stop
// function the caller defers to flush and close the profile.
func startCPUProfile(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, err
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}
