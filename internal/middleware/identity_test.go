package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireIdentity_PassesUserThrough(t *testing.T) {
	var gotUserID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	mw := RequireIdentity()
	req := httptest.NewRequest("POST", "/checkout/intents", nil)
	req.Header.Set("X-User-ID", "user-42")
	w := httptest.NewRecorder()

	mw(handler).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-42", gotUserID)
}

func TestRequireIdentity_RejectsMissingHeader(t *testing.T) {
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})

	mw := RequireIdentity()
	req := httptest.NewRequest("POST", "/checkout/intents", nil)
	w := httptest.NewRecorder()

	mw(handler).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, handlerCalled)
	assert.Contains(t, w.Body.String(), "auth_required")
}

func TestGetUserID_MissingFromContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	_, ok := GetUserID(req.Context())

	assert.False(t, ok)
}
