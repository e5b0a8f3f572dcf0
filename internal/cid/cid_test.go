package cid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSum(t *testing.T) {
	c := Sum([]byte("hello world"))
	assert.Equal(t, "QmaozNR7DZHQK1ZcU9p7QdrshMvXqWK6gpu5rmrkPdT3L4", c)
	assert.Len(t, c, 46)
	assert.Equal(t, "Qm", c[:2])
	assert.Equal(t, c, Sum([]byte("hello world")))
	assert.NotEqual(t, c, Sum([]byte("hello world!")))
}

func TestDigest(t *testing.T) {
	c := Sum([]byte(`{"borrower":"0x1"}`))
	digest, err := Digest(c)
	require.Nil(t, err)
	assert.Len(t, digest, 32)

	_, err = Digest("Qm" + c[2:45])
	assert.Equal(t, ErrInvalidCID, err)

	_, err = Digest("not a cid")
	assert.Equal(t, ErrInvalidCID, err)

	// the fake "Qm" + base64 labels of the old dashboard are rejected
	_, err = Digest("QmeyJib3Jyb3dlciI6IjB4MSIsImxlbmRlciI6IjB4MiJ9")
	assert.Equal(t, ErrInvalidCID, err)
}

func TestVerify(t *testing.T) {
	content := []byte(`{"principal":"1000"}`)
	c := Sum(content)

	assert.True(t, Verify(c, content))
	assert.False(t, Verify(c, []byte(`{"principal":"1001"}`)))
	assert.False(t, Verify("garbage", content))
}
