package valve

import (
	"github.com/stretchr/testify/mock"
)

// MockInterface is a testify-mock backed valve interface for tests and for
// running without hardware
type MockInterface struct {
	states []bool
	mock.Mock
}

var _ Interface = (*MockInterface)(nil)

func NewMockInterface(count int) *MockInterface {
	states := make([]bool, count)
	return &MockInterface{states, mock.Mock{}}
}

func (m *MockInterface) Name() string {
	return "mock"
}

func (m *MockInterface) Initialize() error {
	for i := range m.states {
		m.states[i] = false
	}
	m.ExpectedCalls = nil
	m.Calls = nil
	m.SetupAllReturns()
	return nil
}

func (m *MockInterface) Deinitialize() error {
	return m.Initialize()
}

func (m *MockInterface) Count() ValveID {
	return (ValveID)(len(m.states))
}

func (m *MockInterface) Set(id ValveID, open bool) {
	m.Called(id, open)
	m.states[id] = open
}

func (m *MockInterface) Get(id ValveID) bool {
	return m.states[id]
}

func (m *MockInterface) SetupReturns(id ValveID) {
	m.On("Set", id, true).Return()
	m.On("Set", id, false).Return()
}

func (m *MockInterface) SetupAllReturns() {
	for i := range m.states {
		m.SetupReturns((ValveID)(i))
	}
}
