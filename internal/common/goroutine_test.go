package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/arbor"
)

func TestSafeGo_RecoversPanic(t *testing.T) {
	done := make(chan struct{})

	SafeGo(arbor.NewLogger(), "panicking", func() {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("goroutine did not run")
	}
}

func TestSafeGo_RunsFunction(t *testing.T) {
	result := make(chan int, 1)
	SafeGo(nil, "worker", func() { result <- 42 })

	select {
	case v := <-result:
		assert.Equal(t, 42, v)
	case <-time.After(2 * time.Second):
		t.Fatal("goroutine did not run")
	}
}
