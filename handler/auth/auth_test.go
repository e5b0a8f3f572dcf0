package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(h http.Handler, method, authorization string) (int, map[string]interface{}) {
	r := httptest.NewRequest(method, "/cdps", nil)
	if authorization != "" {
		r.Header.Set("Authorization", authorization)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w.Code, resp
}

func TestHandleAuthentication(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	h := HandleAuthentication("s3cret")(ok)

	t.Run("reads are open", func(t *testing.T) {
		code, _ := serve(h, http.MethodGet, "")
		assert.Equal(t, http.StatusNoContent, code)
	})

	t.Run("write without token", func(t *testing.T) {
		code, resp := serve(h, http.MethodPost, "")
		require.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, "bearer token required", resp["msg"])
	})

	t.Run("write with a wrong token", func(t *testing.T) {
		code, _ := serve(h, http.MethodPost, "Bearer nope")
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("basic auth is not a bearer token", func(t *testing.T) {
		code, _ := serve(h, http.MethodPost, "Basic s3cret")
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("write with the token", func(t *testing.T) {
		code, _ := serve(h, http.MethodPost, "Bearer s3cret")
		assert.Equal(t, http.StatusNoContent, code)
	})

	t.Run("no token configured", func(t *testing.T) {
		code, _ := serve(HandleAuthentication("")(ok), http.MethodPost, "")
		assert.Equal(t, http.StatusNoContent, code)
	})
}
