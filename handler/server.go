package handler

import (
	"net/http"

	"creditrust/core"
	"creditrust/handler/auth"
	"creditrust/handler/render"
	"creditrust/handler/rest"

	"github.com/go-chi/chi"
	"github.com/twitchtv/twirp"
)

// Server server
type Server struct {
	deployment   *core.Deployment
	vault        core.Vault
	debtToken    core.Token
	operations   core.OperationService
	positions    core.PositionService
	agreements   core.AgreementService
	transactions core.TransactionStore
	token        string
}

// New new server function
func New(
	deployment *core.Deployment,
	vault core.Vault,
	debtToken core.Token,
	operations core.OperationService,
	positions core.PositionService,
	agreements core.AgreementService,
	transactions core.TransactionStore,
	token string,
) Server {
	return Server{
		deployment:   deployment,
		vault:        vault,
		debtToken:    debtToken,
		operations:   operations,
		positions:    positions,
		agreements:   agreements,
		transactions: transactions,
		token:        token,
	}
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.Use(render.Envelope, auth.HandleAuthentication(s.token))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Error(w, twirp.NotFoundError("not found"))
	})

	r.Mount("/", rest.Handle(
		s.deployment,
		s.vault,
		s.debtToken,
		s.operations,
		s.positions,
		s.agreements,
		s.transactions,
	))

	return r
}
