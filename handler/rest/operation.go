package rest

import (
	"net/http"

	"creditrust/core"
	"creditrust/handler/param"
	"creditrust/handler/render"
	"creditrust/handler/views"
	"creditrust/pkg/id"
	"creditrust/pkg/number"

	"github.com/shopspring/decimal"
)

const tokenDecimals = 18

type operationBody struct {
	TraceID string `json:"trace_id"`
	Account string `json:"account"`
	// whole tokens, number or string
	Amount      interface{} `json:"amount"`
	CreditScore interface{} `json:"credit_score"`
}

// traceID any non uuid key is turned into a stable trace id, so clients may
// retry with their own idempotency keys
func traceID(account string, action core.ActionType, key string) string {
	if key == "" || id.ValidTraceID(key) {
		return key
	}

	return id.TraceIDFrom(account + ":" + action.String() + ":" + key)
}

// accountFunc where the acting account comes from
type accountFunc func(r *http.Request, body *operationBody) (string, error)

func bodyAccount(r *http.Request, body *operationBody) (string, error) {
	addr, err := param.ParseAddress(body.Account)
	if err != nil {
		return "", err
	}

	return addr.Hex(), nil
}

func pathAccount(r *http.Request, body *operationBody) (string, error) {
	addr, err := param.Address(r, "address")
	if err != nil {
		return "", err
	}

	return addr.Hex(), nil
}

// operateHandler run one approve-then-act operation and render its
// transaction. Aborted operations render the domain error.
func operateHandler(operations core.OperationService, action core.ActionType, account accountFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body operationBody
		if err := param.Binding(r, &body); err != nil {
			render.Error(w, err)
			return
		}

		addr, err := account(r, &body)
		if err != nil {
			render.Error(w, err)
			return
		}

		amount, err := param.Amount(body.Amount)
		if err != nil {
			render.Error(w, err)
			return
		}

		op := &core.Operation{
			TraceID: traceID(addr, action, body.TraceID),
			Action:  action,
			Account: addr,
			Amount:  decimal.NewFromBigInt(number.ToWei(amount, tokenDecimals), 0),
		}

		if action == core.ActionTypeOpenCDP {
			if op.CreditScore, err = param.Int64(body.CreditScore); err != nil {
				render.Error(w, err)
				return
			}
		}

		tx, err := operations.Execute(ctx, op)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.NewTransaction(tx))
	}
}
