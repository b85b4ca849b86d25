package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	ass := assert.New(t)

	ass.Equal(0.0, Clamp(-12.5, 0, 100))
	ass.Equal(100.0, Clamp(350, 0, 100))
	ass.Equal(42.5, Clamp(42.5, 0, 100))
}

func TestExhaustChan(t *testing.T) {
	ass := assert.New(t)

	ch := make(chan interface{}, 10)

	for i := 0; i < 10; i++ {
		ch <- nil
	}

	ass.NotPanics(func() {
		ExhaustChan(ch)
	})
	select {
	case <-ch:
		ass.Fail("channel not exhausted")
	default:

	}

	ass.Panics(func() {
		ExhaustChan("not a chan lel")
	})
}
