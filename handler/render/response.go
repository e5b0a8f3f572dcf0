package render

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"
)

// HintInternalErrors expose the message of internal errors as hint
var HintInternalErrors, _ = strconv.ParseBool(os.Getenv("RESPONSE_ERROR_MESSAGE_AS_HINT"))

type envelope struct {
	Data json.RawMessage `json:"data,omitempty"`
}

// envelopeWriter holds back successful json bodies until the handler is
// done, everything else streams through
type envelopeWriter struct {
	http.ResponseWriter
	status  int
	started bool
	hold    bool
	buf     bytes.Buffer
}

func (w *envelopeWriter) WriteHeader(status int) {
	if w.started {
		return
	}

	w.started = true
	w.status = status
	w.hold = status < http.StatusBadRequest &&
		strings.HasPrefix(w.Header().Get("Content-Type"), "application/json")

	if !w.hold {
		w.ResponseWriter.WriteHeader(status)
	}
}

func (w *envelopeWriter) Write(p []byte) (int, error) {
	if !w.started {
		w.WriteHeader(http.StatusOK)
	}

	if w.hold {
		return w.buf.Write(p)
	}

	return w.ResponseWriter.Write(p)
}

func (w *envelopeWriter) flush() {
	if !w.hold {
		return
	}

	body := w.buf.Bytes()
	if b, err := json.Marshal(envelope{Data: bytes.TrimSpace(body)}); err == nil {
		body = append(b, '\n')
	}

	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(w.status)
	_, _ = w.ResponseWriter.Write(body)
}

// Envelope wrap successful json bodies as {"data": ...}
func Envelope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ew := &envelopeWriter{ResponseWriter: w}
		next.ServeHTTP(ew, r)
		ew.flush()
	})
}
