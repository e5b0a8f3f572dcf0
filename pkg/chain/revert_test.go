package chain

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
)

type dataError struct {
	msg  string
	data interface{}
}

func (e *dataError) Error() string          { return e.msg }
func (e *dataError) ErrorData() interface{} { return e.data }

func TestRevertReason(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		reason string
		ok     bool
	}{
		{
			name:   "rpc data",
			err:    &dataError{msg: "execution reverted", data: hexutil.Encode(EncodeRevert("No active CDP"))},
			reason: "No active CDP",
			ok:     true,
		},
		{
			name:   "message",
			err:    errors.New("execution reverted: Insufficient collateral ratio"),
			reason: "Insufficient collateral ratio",
			ok:     true,
		},
		{
			name:   "hardhat",
			err:    errors.New("Error: VM Exception while processing transaction: reverted with reason string 'CDP already exists'"),
			reason: "CDP already exists",
			ok:     true,
		},
		{
			name: "other",
			err:  errors.New("connection refused"),
		},
		{
			name: "nil",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			reason, ok := RevertReason(c.err)
			assert.Equal(t, c.ok, ok)
			assert.Equal(t, c.reason, reason)
		})
	}
}
