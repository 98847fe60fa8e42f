package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/go_checkout/internal/domain"
	"github.com/fjod/go_checkout/internal/workflow"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL, Timeout: 2 * time.Second})
}

func TestLogin_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/users/login/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var creds credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "a@b.c", creds.Email)

		json.NewEncoder(w).Encode(domain.UserInfo{ID: 7, Name: "amir", Email: creds.Email, Token: "jwt"})
	})

	user, err := client.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "jwt", user.Token)
}

func TestLogin_KnownFailureClassified(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{
			"detail": "No active account found with the given credentials",
		})
	})

	_, err := client.Login(context.Background(), "a@b.c", "wrong")
	var actionErr *workflow.ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, workflow.KindInvalidCredentials, actionErr.Kind)
}

func TestUnknownFailure_RawMessagePassesThrough(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "cart was modified"})
	})

	_, err := client.CreateOrder(context.Background(), "jwt", domain.OrderDraft{})
	var actionErr *workflow.ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, workflow.KindUnrecognized, actionErr.Kind)
	assert.Equal(t, "cart was modified", actionErr.Message)
}

func TestFailureWithoutDetail_FallsBackToStatusText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.GetUserDetails(context.Background(), "jwt")
	var actionErr *workflow.ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), actionErr.Message)
}

func TestAuthorizedActions_CarryBearerToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(domain.Order{ID: "42"})
	})

	order, err := client.GetOrderDetails(context.Background(), "jwt", "42")
	require.NoError(t, err)
	assert.Equal(t, "Bearer jwt", gotAuth)
	assert.Equal(t, "42", order.ID)
}

func TestPayOrder_HitsPayEndpoint(t *testing.T) {
	var gotPath, gotMethod string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		json.NewEncoder(w).Encode(domain.Order{ID: "42", IsPaid: true})
	})

	order, err := client.PayOrder(context.Background(), "jwt", "42")
	require.NoError(t, err)
	assert.Equal(t, "/api/orders/42/pay/", gotPath)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.True(t, order.IsPaid)
}

func TestBreaker_OpensAfterConsecutiveTransportFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClient(Config{BaseURL: server.URL, Timeout: time.Second})
	server.Close() // every call now fails at the transport level

	for i := 0; i < 6; i++ {
		_, err := client.GetUserDetails(context.Background(), "jwt")
		require.Error(t, err)
	}

	_, err := client.GetUserDetails(context.Background(), "jwt")
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState), "breaker should be open")
}

func TestBreaker_BackendErrorsDoNotTrip(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "nope"})
	})

	for i := 0; i < 10; i++ {
		_, err := client.GetUserDetails(context.Background(), "jwt")
		var actionErr *workflow.ActionError
		require.ErrorAs(t, err, &actionErr, "4xx responses must keep coming through, not trip the breaker")
	}
}
