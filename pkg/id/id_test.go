package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceID(t *testing.T) {
	a := GenTraceID()
	b := GenTraceID()
	assert.NotEqual(t, a, b)
	assert.True(t, ValidTraceID(a))
	assert.False(t, ValidTraceID("not-a-uuid"))
}

func TestTraceIDFrom(t *testing.T) {
	a := TraceIDFrom("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266:open_cdp:1")
	assert.Equal(t, a, TraceIDFrom("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266:open_cdp:1"))
	assert.NotEqual(t, a, TraceIDFrom("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266:open_cdp:2"))
	assert.True(t, ValidTraceID(a))
}

func TestSubTraceID(t *testing.T) {
	trace := GenTraceID()
	rollback := SubTraceID(trace, "rollback")
	assert.NotEqual(t, trace, rollback)
	assert.Equal(t, rollback, SubTraceID(trace, "rollback"))
	assert.True(t, ValidTraceID(rollback))
}
