package valve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockInterface(t *testing.T) {
	ass := assert.New(t)

	m := NewMockInterface(2)
	ass.NoError(m.Initialize())
	ass.Equal("mock", m.Name())
	ass.Equal((ValveID)(2), m.Count())

	ass.False(m.Get(0))
	m.Set(0, true)
	ass.True(m.Get(0))
	ass.False(m.Get(1))
	m.Set(0, false)
	ass.False(m.Get(0))

	m.AssertNumberOfCalls(t, "Set", 2)
	ass.NoError(m.Deinitialize())
}
