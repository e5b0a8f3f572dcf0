package param

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"creditrust/core"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi"
	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag("json")
	d.IgnoreUnknownKeys(true)
	return d
}()

// Binding decode query params of GET requests, json bodies otherwise
func Binding(r *http.Request, v interface{}) error {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		if err := decoder.Decode(v, r.URL.Query()); err != nil {
			return fmt.Errorf("%w: %s", core.ErrInvalidArgument, err.Error())
		}
		return nil
	}

	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}

	// numbers stay json.Number so large amounts keep every digit
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %s", core.ErrInvalidArgument, err.Error())
	}

	return nil
}

// Address hex address url param
func Address(r *http.Request, name string) (common.Address, error) {
	return ParseAddress(chi.URLParam(r, name))
}

// ParseAddress checked hex address
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q is not an address", core.ErrInvalidArgument, s)
	}

	return common.HexToAddress(s), nil
}

// Amount parse a token amount given as json number or string, in whole
// tokens with up to 18 decimals. Missing amounts are zero.
func Amount(v interface{}) (decimal.Decimal, error) {
	if v == nil {
		return decimal.Zero, nil
	}

	if n, ok := v.(json.Number); ok {
		v = n.String()
	}

	s := strings.TrimSpace(cast.ToString(v))
	if s == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() || !d.Truncate(18).Equal(d) {
		return decimal.Zero, fmt.Errorf("%w: bad amount %q", core.ErrInvalidAmount, s)
	}

	return d, nil
}

// Int64 loose integer param
func Int64(v interface{}) (int64, error) {
	if num, ok := v.(json.Number); ok {
		v = num.String()
	}

	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", core.ErrInvalidArgument, err.Error())
	}

	return n, nil
}
