package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicClock(t *testing.T) {
	c := NewDeterministicClock()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())

	c.Reset()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
}

func TestDeterministicClockConcurrent(t *testing.T) {
	c := NewDeterministicClock()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Next()
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(50), c.Current())
}

func TestFixedRunTokenGenerator(t *testing.T) {
	g := NewFixedRunTokenGenerator("run-test-1")
	assert.Equal(t, "run-test-1", g.Generate())
	assert.Equal(t, g.Generate(), g.Generate())

	assert.Equal(t, "test-run-default", NewFixedRunTokenGenerator("").Generate())
}
