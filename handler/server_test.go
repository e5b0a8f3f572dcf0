package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRestAPIWritesNeedToken(t *testing.T) {
	api := New(nil, nil, nil, nil, nil, nil, nil, "s3cret").HandleRestAPI()

	post := func(authorization string) int {
		r := httptest.NewRequest(http.MethodPost, "/cdps", strings.NewReader(`{"account":"alice","amount":1}`))
		if authorization != "" {
			r.Header.Set("Authorization", authorization)
		}

		w := httptest.NewRecorder()
		api.ServeHTTP(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, post(""))
	assert.Equal(t, http.StatusForbidden, post("Bearer wrong"))
	// past the gate, the bad account is rejected before any operation runs
	assert.Equal(t, http.StatusBadRequest, post("Bearer s3cret"))
}
