package mocks

import (
	context "context"

	domain "github.com/bnema/cashier-cli/internal/domain"
	mock "github.com/stretchr/testify/mock"
)

// MockIdentityDirectory is an autogenerated mock type for the IdentityDirectory type
type MockIdentityDirectory struct {
	mock.Mock
}

type MockIdentityDirectory_Expecter struct {
	mock *mock.Mock
}

func (_m *MockIdentityDirectory) EXPECT() *MockIdentityDirectory_Expecter {
	return &MockIdentityDirectory_Expecter{mock: &_m.Mock}
}

// Resolve provides a mock function with given fields: ctx, ref
func (_m *MockIdentityDirectory) Resolve(ctx context.Context, ref uint64) (domain.Identity, error) {
	ret := _m.Called(ctx, ref)

	if len(ret) == 0 {
		panic("no return value specified for Resolve")
	}

	var r0 domain.Identity
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, uint64) (domain.Identity, error)); ok {
		return rf(ctx, ref)
	}
	if rf, ok := ret.Get(0).(func(context.Context, uint64) domain.Identity); ok {
		r0 = rf(ctx, ref)
	} else {
		r0 = ret.Get(0).(domain.Identity)
	}

	if rf, ok := ret.Get(1).(func(context.Context, uint64) error); ok {
		r1 = rf(ctx, ref)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockIdentityDirectory_Resolve_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Resolve'
type MockIdentityDirectory_Resolve_Call struct {
	*mock.Call
}

// Resolve is a helper method to define mock.On call
//   - ctx context.Context
//   - ref uint64
func (_e *MockIdentityDirectory_Expecter) Resolve(ctx interface{}, ref interface{}) *MockIdentityDirectory_Resolve_Call {
	return &MockIdentityDirectory_Resolve_Call{Call: _e.mock.On("Resolve", ctx, ref)}
}

func (_c *MockIdentityDirectory_Resolve_Call) Run(run func(ctx context.Context, ref uint64)) *MockIdentityDirectory_Resolve_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(uint64))
	})
	return _c
}

func (_c *MockIdentityDirectory_Resolve_Call) Return(_a0 domain.Identity, _a1 error) *MockIdentityDirectory_Resolve_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockIdentityDirectory_Resolve_Call) RunAndReturn(run func(context.Context, uint64) (domain.Identity, error)) *MockIdentityDirectory_Resolve_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockIdentityDirectory creates a new instance of MockIdentityDirectory. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockIdentityDirectory(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockIdentityDirectory {
	mock := &MockIdentityDirectory{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
