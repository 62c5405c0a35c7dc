package mocks

import (
	"github.com/brettbedarf/elfshelf/filesystem"
	"github.com/brettbedarf/elfshelf/session"
	"github.com/brettbedarf/elfshelf/shell"
	"github.com/stretchr/testify/mock"
)

// MockRenderer implements shell.Renderer for testing across packages
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Path(id filesystem.Identity) string {
	args := m.Called(id)

	// Handle function return types (for complex tests)
	if fn, ok := args.Get(0).(func(filesystem.Identity) string); ok {
		return fn(id)
	}
	return args.String(0)
}

func (m *MockRenderer) Abort(msg string) string {
	args := m.Called(msg)
	if fn, ok := args.Get(0).(func(string) string); ok {
		return fn(msg)
	}
	return args.String(0)
}

func (m *MockRenderer) Created(id filesystem.Identity) string {
	args := m.Called(id)
	if fn, ok := args.Get(0).(func(filesystem.Identity) string); ok {
		return fn(id)
	}
	return args.String(0)
}

func (m *MockRenderer) Listing(l *session.Listing) string {
	return m.Called(l).String(0)
}

func (m *MockRenderer) Removal(r *filesystem.Removal, available uint64) string {
	return m.Called(r, available).String(0)
}

func (m *MockRenderer) Usage(u *filesystem.Usage) string {
	return m.Called(u).String(0)
}

func (m *MockRenderer) UsageTree(rows []shell.TreeRow) string {
	return m.Called(rows).String(0)
}

func (m *MockRenderer) Help(o *session.Overview, cmds []shell.Command) string {
	return m.Called(o, cmds).String(0)
}

func (m *MockRenderer) Analysis(a *session.Analysis) string {
	return m.Called(a).String(0)
}

var _ shell.Renderer = (*MockRenderer)(nil)
