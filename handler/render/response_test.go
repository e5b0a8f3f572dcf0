package render

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"creditrust/core"

	"github.com/stretchr/testify/assert"
)

func TestEnvelope(t *testing.T) {
	t.Run("wraps json", func(t *testing.T) {
		h := Envelope(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			JSON(w, H{"ok": true})
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":{"ok":true}}`, w.Body.String())
	})

	t.Run("errors pass through", func(t *testing.T) {
		h := Envelope(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Error(w, core.ErrAgreementNotFound)
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NotContains(t, w.Body.String(), `"data"`)
		assert.Contains(t, w.Body.String(), `"code":`)
	})

	t.Run("plain text untouched", func(t *testing.T) {
		h := Envelope(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("pong"))
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "pong", w.Body.String())
	})
}

func TestErrorInternalHint(t *testing.T) {
	defer func(v bool) { HintInternalErrors = v }(HintInternalErrors)
	HintInternalErrors = true

	w := httptest.NewRecorder()
	Error(w, errors.New("db down"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"hint":"db down"`)
}
