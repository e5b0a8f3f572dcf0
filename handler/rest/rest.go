package rest

import (
	"errors"
	"net/http"

	"creditrust/core"
	"creditrust/handler/render"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(
	deployment *core.Deployment,
	vault core.Vault,
	debtToken core.Token,
	operations core.OperationService,
	positions core.PositionService,
	agreements core.AgreementService,
	transactions core.TransactionStore,
) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/deployment", deploymentHandler(deployment))
	router.Get("/vault", vaultHandler(deployment, vault, debtToken))

	router.Route("/cdps", func(r chi.Router) {
		r.Post("/", operateHandler(operations, core.ActionTypeOpenCDP, bodyAccount))
		r.Get("/{address}", cdpHandler(positions))
		r.Post("/{address}/loans", operateHandler(operations, core.ActionTypeRequestLoan, pathAccount))
		r.Post("/{address}/repayments", operateHandler(operations, core.ActionTypeRepay, pathAccount))
		r.Post("/{address}/collateral", operateHandler(operations, core.ActionTypeAddCollateral, pathAccount))
	})

	router.Route("/lenders", func(r chi.Router) {
		r.Post("/", operateHandler(operations, core.ActionTypeStake, bodyAccount))
		r.Get("/{address}", lenderHandler(positions))
		r.Post("/{address}/withdraw", operateHandler(operations, core.ActionTypeWithdraw, pathAccount))
		r.Post("/{address}/compound", operateHandler(operations, core.ActionTypeCompoundRewards, pathAccount))
	})

	router.Post("/agreements", putAgreementHandler(agreements))
	router.Get("/agreements/{cid}", getAgreementHandler(agreements))

	router.Get("/positions/{address}", positionHandler(positions))

	router.Get("/transactions", transactionsHandler(transactions))
	router.Get("/transactions/{trace_id}", transactionHandler(transactions))

	return router
}
