package id

import (
	"crypto/md5"
	"io"

	"github.com/fox-one/pkg/uuid"
	gouuid "github.com/gofrs/uuid"
)

// GenTraceID new random trace id
func GenTraceID() string {
	return gouuid.Must(gouuid.NewV4()).String()
}

// SubTraceID trace id of a follow-up step, e.g. the allowance rollback
func SubTraceID(traceID, step string) string {
	return uuid.Modify(traceID, step)
}

// ValidTraceID trace ids are uuids
func ValidTraceID(traceID string) bool {
	_, err := gouuid.FromString(traceID)
	return err == nil
}

// TraceIDFrom stable trace id derived from text, a md5 based uuid v3
func TraceIDFrom(text string) string {
	h := md5.New()
	_, _ = io.WriteString(h, text)
	sum := h.Sum(nil)
	sum[6] = (sum[6] & 0x0f) | 0x30
	sum[8] = (sum[8] & 0x3f) | 0x80
	return gouuid.FromBytesOrNil(sum).String()
}
