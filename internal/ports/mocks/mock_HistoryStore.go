package mocks

import (
	context "context"

	domain "github.com/bnema/cashier-cli/internal/domain"
	mock "github.com/stretchr/testify/mock"
)

// MockHistoryStore is an autogenerated mock type for the HistoryStore type
type MockHistoryStore struct {
	mock.Mock
}

type MockHistoryStore_Expecter struct {
	mock *mock.Mock
}

func (_m *MockHistoryStore) EXPECT() *MockHistoryStore_Expecter {
	return &MockHistoryStore_Expecter{mock: &_m.Mock}
}

// Load provides a mock function with given fields: ctx, owner
func (_m *MockHistoryStore) Load(ctx context.Context, owner string) ([]domain.HistoryEntry, error) {
	ret := _m.Called(ctx, owner)

	if len(ret) == 0 {
		panic("no return value specified for Load")
	}

	var r0 []domain.HistoryEntry
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) ([]domain.HistoryEntry, error)); ok {
		return rf(ctx, owner)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) []domain.HistoryEntry); ok {
		r0 = rf(ctx, owner)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]domain.HistoryEntry)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, owner)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockHistoryStore_Load_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Load'
type MockHistoryStore_Load_Call struct {
	*mock.Call
}

// Load is a helper method to define mock.On call
//   - ctx context.Context
//   - owner string
func (_e *MockHistoryStore_Expecter) Load(ctx interface{}, owner interface{}) *MockHistoryStore_Load_Call {
	return &MockHistoryStore_Load_Call{Call: _e.mock.On("Load", ctx, owner)}
}

func (_c *MockHistoryStore_Load_Call) Run(run func(ctx context.Context, owner string)) *MockHistoryStore_Load_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *MockHistoryStore_Load_Call) Return(_a0 []domain.HistoryEntry, _a1 error) *MockHistoryStore_Load_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockHistoryStore_Load_Call) RunAndReturn(run func(context.Context, string) ([]domain.HistoryEntry, error)) *MockHistoryStore_Load_Call {
	_c.Call.Return(run)
	return _c
}

// Save provides a mock function with given fields: ctx, owner, entries
func (_m *MockHistoryStore) Save(ctx context.Context, owner string, entries []domain.HistoryEntry) error {
	ret := _m.Called(ctx, owner, entries)

	if len(ret) == 0 {
		panic("no return value specified for Save")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, []domain.HistoryEntry) error); ok {
		r0 = rf(ctx, owner, entries)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockHistoryStore_Save_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Save'
type MockHistoryStore_Save_Call struct {
	*mock.Call
}

// Save is a helper method to define mock.On call
//   - ctx context.Context
//   - owner string
//   - entries []domain.HistoryEntry
func (_e *MockHistoryStore_Expecter) Save(ctx interface{}, owner interface{}, entries interface{}) *MockHistoryStore_Save_Call {
	return &MockHistoryStore_Save_Call{Call: _e.mock.On("Save", ctx, owner, entries)}
}

func (_c *MockHistoryStore_Save_Call) Run(run func(ctx context.Context, owner string, entries []domain.HistoryEntry)) *MockHistoryStore_Save_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string), args[2].([]domain.HistoryEntry))
	})
	return _c
}

func (_c *MockHistoryStore_Save_Call) Return(_a0 error) *MockHistoryStore_Save_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockHistoryStore_Save_Call) RunAndReturn(run func(context.Context, string, []domain.HistoryEntry) error) *MockHistoryStore_Save_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockHistoryStore creates a new instance of MockHistoryStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockHistoryStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockHistoryStore {
	mock := &MockHistoryStore{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
