package rest

import (
	"fmt"
	"net/http"
	"time"

	"creditrust/core"
	"creditrust/handler/param"
	"creditrust/handler/render"
	"creditrust/handler/views"

	"github.com/go-chi/chi"
)

// response sequenced transactions, of one account when account is given
func transactionsHandler(transactionStr core.TransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			Offset  string `json:"offset"`
			Limit   int    `json:"limit"`
			Account string `json:"account"`
		}

		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		var (
			transactions []*core.Transaction
			e            error
		)

		if params.Account != "" {
			addr, err := param.ParseAddress(params.Account)
			if err != nil {
				render.Error(w, err)
				return
			}

			transactions, e = transactionStr.ListByAccount(ctx, addr.Hex(), params.Limit)
		} else {
			limit := params.Limit
			if limit <= 0 {
				limit = 500
			}

			offsetTime, err := time.Parse(time.RFC3339Nano, params.Offset)
			if err != nil {
				offsetTime = time.Time{}
			}

			transactions, e = transactionStr.List(ctx, offsetTime, limit)
		}

		if e != nil {
			render.Error(w, e)
			return
		}

		render.JSON(w, views.Transactions(transactions))
	}
}

func transactionHandler(transactionStr core.TransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		traceID := chi.URLParam(r, "trace_id")

		tx, err := transactionStr.FindByTraceID(r.Context(), traceID)
		if err != nil {
			render.Error(w, err)
			return
		}

		if tx.ID == 0 {
			render.NotFoundRequest(w, fmt.Errorf("transaction %s not found", traceID))
			return
		}

		render.JSON(w, views.NewTransaction(tx))
	}
}
