package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeginSucceed(t *testing.T) {
	lc := New[string]()
	assert.Equal(t, StatusIdle, lc.Status())

	attempt, err := lc.Begin()
	require.NoError(t, err)
	assert.Equal(t, StatusLoading, lc.Status())

	require.NoError(t, lc.Succeed(attempt, "payload"))
	assert.Equal(t, StatusSucceeded, lc.Status())

	payload, ok := lc.Payload()
	require.True(t, ok)
	assert.Equal(t, "payload", payload)

	_, failed := lc.ErrorMessage()
	assert.False(t, failed)
}

func TestBeginFail(t *testing.T) {
	lc := New[string]()

	attempt, err := lc.Begin()
	require.NoError(t, err)

	require.NoError(t, lc.Fail(attempt, "backend said no"))
	assert.Equal(t, StatusFailed, lc.Status())

	msg, failed := lc.ErrorMessage()
	require.True(t, failed)
	assert.Equal(t, "backend said no", msg)

	_, ok := lc.Payload()
	assert.False(t, ok)
}

func TestBegin_RejectedWhileLoading(t *testing.T) {
	lc := New[int]()

	_, err := lc.Begin()
	require.NoError(t, err)

	_, err = lc.Begin()
	assert.ErrorIs(t, err, ErrAttemptInFlight)
	assert.Equal(t, StatusLoading, lc.Status())
}

func TestBegin_ClearsPriorAttempt(t *testing.T) {
	lc := New[string]()

	attempt, _ := lc.Begin()
	require.NoError(t, lc.Fail(attempt, "first error"))

	_, err := lc.Begin()
	require.NoError(t, err)

	_, failed := lc.ErrorMessage()
	assert.False(t, failed, "loading must not carry a stale error message")
	_, ok := lc.Payload()
	assert.False(t, ok, "loading must not carry a stale payload")
}

func TestReset_FromAnyState(t *testing.T) {
	lc := New[string]()

	// succeeded -> idle
	attempt, _ := lc.Begin()
	require.NoError(t, lc.Succeed(attempt, "x"))
	lc.Reset()
	assert.Equal(t, StatusIdle, lc.Status())
	_, ok := lc.Payload()
	assert.False(t, ok)

	// failed -> idle
	attempt, _ = lc.Begin()
	require.NoError(t, lc.Fail(attempt, "boom"))
	lc.Reset()
	assert.Equal(t, StatusIdle, lc.Status())
	_, failed := lc.ErrorMessage()
	assert.False(t, failed)

	// loading -> idle
	_, err := lc.Begin()
	require.NoError(t, err)
	lc.Reset()
	assert.Equal(t, StatusIdle, lc.Status())
}

func TestStaleAttempt_Discarded(t *testing.T) {
	lc := New[string]()

	attempt, _ := lc.Begin()

	// User navigates away before the result lands.
	lc.Reset()

	assert.ErrorIs(t, lc.Succeed(attempt, "late"), ErrStaleAttempt)
	assert.Equal(t, StatusIdle, lc.Status())
	_, ok := lc.Payload()
	assert.False(t, ok)

	assert.ErrorIs(t, lc.Fail(attempt, "late error"), ErrStaleAttempt)
	assert.Equal(t, StatusIdle, lc.Status())
}

func TestSucceed_WithoutBegin(t *testing.T) {
	lc := New[string]()
	err := lc.Succeed(0, "nope")
	assert.Error(t, err)
	assert.Equal(t, StatusIdle, lc.Status())
}

func TestTerminal(t *testing.T) {
	assert.False(t, StatusIdle.Terminal())
	assert.False(t, StatusLoading.Terminal())
	assert.True(t, StatusSucceeded.Terminal())
	assert.True(t, StatusFailed.Terminal())
}
