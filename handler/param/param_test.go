package param

import (
	"net/http/httptest"
	"strings"
	"testing"

	"creditrust/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindingQuery(t *testing.T) {
	r := httptest.NewRequest("GET", "/transactions?limit=20&account=0xabc&unknown=1", nil)

	var params struct {
		Limit   int    `json:"limit"`
		Account string `json:"account"`
	}
	require.Nil(t, Binding(r, &params))
	assert.Equal(t, 20, params.Limit)
	assert.Equal(t, "0xabc", params.Account)
}

func TestBindingBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/cdps", strings.NewReader(`{"amount":1.5,"credit_score":"720"}`))

	var body struct {
		Amount      interface{} `json:"amount"`
		CreditScore interface{} `json:"credit_score"`
	}
	require.Nil(t, Binding(r, &body))

	amount, err := Amount(body.Amount)
	require.Nil(t, err)
	assert.Equal(t, "1.5", amount.String())

	score, err := Int64(body.CreditScore)
	require.Nil(t, err)
	assert.Equal(t, int64(720), score)

	// more digits than a float64 holds
	r = httptest.NewRequest("POST", "/cdps", strings.NewReader(`{"amount":123456789012345678.123456789012345678,"credit_score":720}`))
	require.Nil(t, Binding(r, &body))

	amount, err = Amount(body.Amount)
	require.Nil(t, err)
	assert.Equal(t, "123456789012345678.123456789012345678", amount.String())

	score, err = Int64(body.CreditScore)
	require.Nil(t, err)
	assert.Equal(t, int64(720), score)

	bad := httptest.NewRequest("POST", "/cdps", strings.NewReader(`{"amount":`))
	assert.Equal(t, core.ErrInvalidArgument, core.CodeOf(Binding(bad, &body)))
}

func TestAmount(t *testing.T) {
	for _, v := range []interface{}{"-1", "abc", "0.0000000000000000001"} {
		_, err := Amount(v)
		assert.Equal(t, core.ErrInvalidAmount, core.CodeOf(err), v)
	}

	d, err := Amount(nil)
	require.Nil(t, err)
	assert.True(t, d.IsZero())

	d, err = Amount("400")
	require.Nil(t, err)
	assert.Equal(t, "400", d.String())

	// trailing zeros past 18 decimals are still exact
	d, err = Amount("1.0000000000000000000")
	require.Nil(t, err)
	assert.Equal(t, "1", d.String())
}

func TestParseAddress(t *testing.T) {
	_, err := ParseAddress("alice")
	assert.Equal(t, core.ErrInvalidArgument, core.CodeOf(err))

	addr, err := ParseAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	require.Nil(t, err)
	assert.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", addr.Hex())
}
