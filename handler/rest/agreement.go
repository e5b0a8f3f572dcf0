package rest

import (
	"net/http"

	"creditrust/core"
	"creditrust/handler/param"
	"creditrust/handler/render"

	"github.com/go-chi/chi"
)

func putAgreementHandler(agreements core.AgreementService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body core.LoanAgreement
		if err := param.Binding(r, &body); err != nil {
			render.Error(w, err)
			return
		}

		agreement, err := agreements.Put(r.Context(), &body)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{
			"cid":        agreement.CID,
			"pinned_cid": agreement.PinnedCID,
			"borrower":   agreement.Borrower,
			"created_at": agreement.CreatedAt,
		})
	}
}

func getAgreementHandler(agreements core.AgreementService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agreement, err := agreements.Get(r.Context(), chi.URLParam(r, "cid"))
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, agreement)
	}
}
