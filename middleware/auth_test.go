package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("middleware-secret")

func signToken(t *testing.T, claims jwt.MapClaims, method jwt.SigningMethod, key interface{}) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(role string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":  role,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
}

func TestParseToken(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		claims, err := ParseToken(signToken(t, validClaims("organizer"), jwt.SigningMethodHS256, secret), secret)
		require.NoError(t, err)
		assert.Equal(t, "organizer", claims["role"])
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := ParseToken(signToken(t, validClaims("organizer"), jwt.SigningMethodHS256, []byte("other")), secret)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		claims := validClaims("organizer")
		claims["exp"] = time.Now().Add(-time.Minute).Unix()
		_, err := ParseToken(signToken(t, claims, jwt.SigningMethodHS256, secret), secret)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token := signToken(t, validClaims("organizer"), jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType)
		_, err := ParseToken(token, secret)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseToken("not.a.token", secret)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func protected(roles ...string) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ := GetRoleFromContext(r.Context())
		w.Header().Set("X-Role", role)
		w.WriteHeader(http.StatusNoContent)
	})
	return Authenticate(secret, nil)(Authorize(roles...)(ok))
}

func TestAuthenticateAndAuthorize(t *testing.T) {
	cases := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"organizer", "Bearer " + signToken(t, validClaims("organizer"), jwt.SigningMethodHS256, secret), http.StatusNoContent},
		{"lowercase scheme", "bearer " + signToken(t, validClaims("organizer"), jwt.SigningMethodHS256, secret), http.StatusNoContent},
		{"other role", "Bearer " + signToken(t, validClaims("viewer"), jwt.SigningMethodHS256, secret), http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/tournaments", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			protected("organizer").ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusNoContent {
				assert.Equal(t, "organizer", rec.Header().Get("X-Role"))
			} else {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestAuthorizeWithoutClaims(t *testing.T) {
	h := Authorize("organizer")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetRoleFromContextMissingRole(t *testing.T) {
	var seen error
	h := Authenticate(secret, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, seen = GetRoleFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	token := signToken(t, jwt.MapClaims{"sub": "x", "exp": time.Now().Add(time.Hour).Unix()}, jwt.SigningMethodHS256, secret)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Error(t, seen)
}
