package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueValidate(t *testing.T) {
	s := NewService("secret", time.Hour)
	res, err := s.Issue("bench-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.ID, "sess_"))

	sess, err := s.Validate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "bench-1", sess.Slot)
	assert.Equal(t, res.ID, sess.ID)
}

func TestIssueRejectsBadSlot(t *testing.T) {
	s := NewService("secret", 0)
	for _, slot := range []string{"", "a/b", "has space", strings.Repeat("x", 65)} {
		_, err := s.Issue(slot)
		assert.ErrorIs(t, err, ErrInvalidSlot, slot)
	}
}

func TestValidateRejects(t *testing.T) {
	s := NewService("secret", time.Hour)
	res, err := s.Issue("a")
	require.NoError(t, err)

	_, err = NewService("other", time.Hour).Validate(res.Token)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong secret")

	later := NewService("secret", time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = later.Validate(res.Token)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "a", "sid": res.ID, "exp": time.Now().Add(time.Hour).Unix()})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.Validate(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken, "alg none")
}

func TestMiddleware(t *testing.T) {
	s := NewService("secret", time.Hour)
	res, err := s.Issue("slot")
	require.NoError(t, err)

	var got *Session
	h := s.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SessionFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+res.Token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "slot", got.Slot)

	got = nil
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws?token="+res.Token, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
}

func TestCreateSession(t *testing.T) {
	h := NewHandler(NewService("secret", time.Hour), "fallback")

	rec := httptest.NewRecorder()
	h.CreateSession(rec, httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"slot":"main"}`)))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slot":"main"`)

	rec = httptest.NewRecorder()
	h.CreateSession(rec, httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"slot":"a b"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.CreateSession(rec, httptest.NewRequest(http.MethodPost, "/sessions", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slot":"fallback"`)
}
