package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketRefillsEachSecond(t *testing.T) {
	now := time.Unix(1000, 0)
	tb := NewTokenBucket(2)
	tb.now = func() time.Time { return now }
	tb.lastSec = now.Unix()

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())

	now = now.Add(time.Second)
	assert.True(t, tb.Allow())
}

func TestLimitRejectsWith429(t *testing.T) {
	now := time.Unix(2000, 0)
	tb := NewTokenBucket(1)
	tb.now = func() time.Time { return now }
	tb.lastSec = now.Unix()
	h := Limit(tb, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestWrapDisabledByDefault(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "")
	called := false
	h := Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}
