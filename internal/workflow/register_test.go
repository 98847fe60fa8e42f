package workflow

import (
	"context"
	"testing"

	"github.com/fjod/go_checkout/internal/domain"
	"github.com/fjod/go_checkout/internal/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterSubmit_PasswordMismatch(t *testing.T) {
	dispatcher := &mockDispatcher{}
	store := &mockStore{}
	nav := &mockNavigator{}

	wf := NewRegisterWorkflow(dispatcher, store, nav)
	require.NoError(t, wf.Submit(context.Background(), "amir", "a@b.c", "a", "b"))

	assert.Equal(t, 0, dispatcher.registerCalls, "mismatch must not dispatch")
	assert.Equal(t, MsgPasswordMismatch, wf.ValidationMessage())
	assert.Equal(t, lifecycle.StatusIdle, wf.State().Status())
	assert.Empty(t, nav.paths)
}

func TestRegisterSubmit_Success(t *testing.T) {
	dispatcher := &mockDispatcher{
		user: domain.UserInfo{ID: 2, Name: "amir", Email: "a@b.c", Token: "jwt"},
	}
	store := &mockStore{}
	nav := &mockNavigator{query: map[string]string{"redirect": "/shipping"}}

	wf := NewRegisterWorkflow(dispatcher, store, nav)
	require.NoError(t, wf.Submit(context.Background(), "amir", "a@b.c", "pw", "pw"))

	assert.Equal(t, 1, dispatcher.registerCalls)
	assert.Empty(t, wf.ValidationMessage())
	assert.Equal(t, lifecycle.StatusSucceeded, wf.State().Status())
	assert.Equal(t, 1, store.setSessionCalls)
	assert.Equal(t, "/shipping", nav.lastPath())
}

func TestRegisterSubmit_MessageClearedOnValidRetry(t *testing.T) {
	dispatcher := &mockDispatcher{user: domain.UserInfo{ID: 2}}
	wf := NewRegisterWorkflow(dispatcher, &mockStore{}, &mockNavigator{})

	require.NoError(t, wf.Submit(context.Background(), "amir", "a@b.c", "a", "b"))
	assert.Equal(t, MsgPasswordMismatch, wf.ValidationMessage())

	require.NoError(t, wf.Submit(context.Background(), "amir", "a@b.c", "pw", "pw"))
	assert.Empty(t, wf.ValidationMessage())
}

func TestRegisterSubmit_ActionFailure(t *testing.T) {
	dispatcher := &mockDispatcher{err: ClassifyMessage("email already taken")}
	wf := NewRegisterWorkflow(dispatcher, &mockStore{}, &mockNavigator{})

	require.NoError(t, wf.Submit(context.Background(), "amir", "a@b.c", "pw", "pw"))

	assert.Equal(t, lifecycle.StatusFailed, wf.State().Status())
	msg, failed := wf.State().ErrorMessage()
	require.True(t, failed)
	assert.Equal(t, "email already taken", msg)
}
