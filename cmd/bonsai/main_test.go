package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingProfiler struct {
	stops int
}

func (cp *countingProfiler) Stop() {
	cp.stops++
}

func TestExitStopsProfiler(t *testing.T) {
	defer func(f func(int)) { osExit = f }(osExit)
	var code int
	osExit = func(c int) { code = c }

	profiler := &countingProfiler{}
	config := &rootCmdConfig{profiler: profiler}
	config.exit(3)
	assert.Equal(t, 3, code)
	assert.Equal(t, 1, profiler.stops)

	config.stopProfiler()
	assert.Equal(t, 1, profiler.stops)
}
