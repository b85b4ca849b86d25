package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtomicBool(t *testing.T) {
	ass := assert.New(t)

	b := NewAtomicBool(true)
	ass.Equal(true, b.Load())
	ass.NotPanics(func() {
		b.Store(false)
	})
	ass.Equal(false, b.Load())

	ass.Equal(true, b.StoreIf(false, true))
	ass.Equal(true, b.Load())
	ass.Equal(true, b.StoreIf(true, false))
	ass.Equal(false, b.Load())
	ass.Equal(false, b.StoreIf(true, false))
	ass.Equal(false, b.Load())
}
