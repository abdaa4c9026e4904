// Package mocks holds a hand-maintained stand-in for mockgen's generated
// output over kv.RawEnv, used by registry tests that exercise the
// open/close/ref-counting logic in package mdbxkv without linking a real
// ordered store. Call sites use it exactly as generated mocks are used
// elsewhere in the corpus: construct with a *gomock.Controller, set
// EXPECT() expectations, then install NewMockRawEnv's constructor under
// OpenOptions' engineOpen test hook.
package mocks

import (
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"

	kv "github.com/erigontech/mdbxkv/kv"
)

var _ kv.RawEnv = (*MockRawEnv)(nil)

// MockRawEnv is a mock of the kv.RawEnv interface.
type MockRawEnv struct {
	ctrl     *gomock.Controller
	recorder *MockRawEnvMockRecorder
}

// MockRawEnvMockRecorder is the mock recorder for MockRawEnv.
type MockRawEnvMockRecorder struct {
	mock *MockRawEnv
}

// NewMockRawEnv creates a new mock instance.
func NewMockRawEnv(ctrl *gomock.Controller) *MockRawEnv {
	mock := &MockRawEnv{ctrl: ctrl}
	mock.recorder = &MockRawEnvMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRawEnv) EXPECT() *MockRawEnvMockRecorder {
	return m.recorder
}

func (m *MockRawEnv) BeginTxn(parent kv.RawTxn, readOnly bool) (kv.RawTxn, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BeginTxn", parent, readOnly)
	ret0, _ := ret[0].(kv.RawTxn)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockRawEnvMockRecorder) BeginTxn(parent, readOnly any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BeginTxn", reflect.TypeOf((*MockRawEnv)(nil).BeginTxn), parent, readOnly)
}

func (m *MockRawEnv) Close() error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Close")
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockRawEnvMockRecorder) Close() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Close", reflect.TypeOf((*MockRawEnv)(nil).Close))
}

func (m *MockRawEnv) Stat() (kv.Stat, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Stat")
	ret0, _ := ret[0].(kv.Stat)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockRawEnvMockRecorder) Stat() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Stat", reflect.TypeOf((*MockRawEnv)(nil).Stat))
}

func (m *MockRawEnv) Info() (kv.EnvInfo, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Info")
	ret0, _ := ret[0].(kv.EnvInfo)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockRawEnvMockRecorder) Info() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Info", reflect.TypeOf((*MockRawEnv)(nil).Info))
}

func (m *MockRawEnv) Sync(force bool) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Sync", force)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockRawEnvMockRecorder) Sync(force any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Sync", reflect.TypeOf((*MockRawEnv)(nil).Sync), force)
}

func (m *MockRawEnv) Flags() (kv.EnvFlag, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Flags")
	ret0, _ := ret[0].(kv.EnvFlag)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockRawEnvMockRecorder) Flags() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Flags", reflect.TypeOf((*MockRawEnv)(nil).Flags))
}

func (m *MockRawEnv) SetFlags(flags kv.EnvFlag, enable bool) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetFlags", flags, enable)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockRawEnvMockRecorder) SetFlags(flags, enable any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetFlags", reflect.TypeOf((*MockRawEnv)(nil).SetFlags), flags, enable)
}

func (m *MockRawEnv) MaxKeySize() int {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MaxKeySize")
	ret0, _ := ret[0].(int)
	return ret0
}

func (mr *MockRawEnvMockRecorder) MaxKeySize() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MaxKeySize", reflect.TypeOf((*MockRawEnv)(nil).MaxKeySize))
}

func (m *MockRawEnv) SetMapSize(size int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetMapSize", size)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockRawEnvMockRecorder) SetMapSize(size any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetMapSize", reflect.TypeOf((*MockRawEnv)(nil).SetMapSize), size)
}

func (m *MockRawEnv) SetMaxReaders(n int) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetMaxReaders", n)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockRawEnvMockRecorder) SetMaxReaders(n any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetMaxReaders", reflect.TypeOf((*MockRawEnv)(nil).SetMaxReaders), n)
}

func (m *MockRawEnv) ReaderCheck() (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ReaderCheck")
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockRawEnvMockRecorder) ReaderCheck() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ReaderCheck", reflect.TypeOf((*MockRawEnv)(nil).ReaderCheck))
}

func (m *MockRawEnv) CopyTo(dst string, compact bool) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CopyTo", dst, compact)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockRawEnvMockRecorder) CopyTo(dst, compact any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CopyTo", reflect.TypeOf((*MockRawEnv)(nil).CopyTo), dst, compact)
}

func (m *MockRawEnv) Path() string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Path")
	ret0, _ := ret[0].(string)
	return ret0
}

func (mr *MockRawEnvMockRecorder) Path() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Path", reflect.TypeOf((*MockRawEnv)(nil).Path))
}
