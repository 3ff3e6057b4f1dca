package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenFromRequest(t *testing.T) {
	t.Run("query parameter", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws?auth_token=abc", nil)
		assert.Equal(t, "abc", TokenFromRequest(r))
	})

	t.Run("bearer header", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws", nil)
		r.Header.Set("Authorization", "Bearer xyz")
		assert.Equal(t, "xyz", TokenFromRequest(r))
	})

	t.Run("query parameter wins over header", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws?auth_token=abc", nil)
		r.Header.Set("Authorization", "Bearer xyz")
		assert.Equal(t, "abc", TokenFromRequest(r))
	})

	t.Run("non-bearer scheme is ignored", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws", nil)
		r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		assert.Equal(t, "", TokenFromRequest(r))
	})

	t.Run("missing credential", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws", nil)
		assert.Equal(t, "", TokenFromRequest(r))
	})
}
