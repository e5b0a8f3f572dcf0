package chain

import (
	"errors"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

var hardhatReason = regexp.MustCompile(`reverted with reason string '([^']*)'`)

// RevertReason recover the revert reason carried by a node error.
// Nodes attach the abi encoded Error(string) as error data; hardhat and
// some gateways only put the text in the message.
func RevertReason(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if reason, ok := unpackData(dataErr.ErrorData()); ok {
			return reason, true
		}
	}

	msg := err.Error()
	if m := hardhatReason.FindStringSubmatch(msg); len(m) == 2 {
		return m[1], true
	}

	const prefix = "execution reverted"
	if i := strings.Index(msg, prefix); i >= 0 {
		reason := strings.TrimPrefix(msg[i+len(prefix):], ":")
		return strings.TrimSpace(reason), true
	}

	return "", false
}

func unpackData(data interface{}) (string, bool) {
	var raw []byte
	switch v := data.(type) {
	case string:
		b, err := hexutil.Decode(v)
		if err != nil {
			return "", false
		}
		raw = b
	case []byte:
		raw = v
	default:
		return "", false
	}

	reason, err := abi.UnpackRevert(raw)
	if err != nil {
		return "", false
	}

	return reason, true
}

// EncodeRevert abi encoding of Error(reason), what nodes return as data
func EncodeRevert(reason string) []byte {
	typ, _ := abi.NewType("string", "", nil)
	packed, _ := abi.Arguments{{Type: typ}}.Pack(reason)
	return append(common.CopyBytes(revertSelector), packed...)
}

// Error(string)
var revertSelector = []byte{0x08, 0xc3, 0x79, 0xa0}
