package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"creditrust/core"
	"creditrust/handler"
	"creditrust/handler/hc"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// routes /hc, /metrics and the rest api under /api
func routes(a *app, agreements core.AgreementService) http.Handler {
	mux := chi.NewMux()
	mux.Use(
		middleware.Recoverer,
		middleware.StripSlashes,
		cors.AllowAll().Handler,
		logger.WithRequestID,
		middleware.Logger,
		middleware.NewCompressor(5).Handler,
	)

	mux.Mount("/hc", hc.Handle(rootCmd.Version, a.backend.node, a.deployment))
	mux.Handle("/metrics", promhttp.Handler())

	api := handler.New(
		a.deployment,
		a.backend.vault,
		a.backend.debt,
		a.operations,
		a.positions,
		agreements,
		a.transactions,
		cfg.API.Token,
	)
	mux.Mount("/api", api.HandleRestAPI())

	return mux
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run creditrust api server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := signal.WithContext(cmd.Context())
		log := logger.FromContext(ctx)

		a, err := provideApp(ctx)
		if err != nil {
			return err
		}

		listen, _ := cmd.Flags().GetString("listen")
		grace, _ := cmd.Flags().GetDuration("shutdown-timeout")

		server := &http.Server{
			Addr:    listen,
			Handler: routes(a, provideAgreementService(provideAgreementStore(a.db))),
		}

		stopped := make(chan error, 1)
		go func() {
			<-ctx.Done()

			// ctx is already cancelled, the drain gets a fresh deadline
			sctx, cancel := context.WithTimeout(context.Background(), grace)
			defer cancel()
			stopped <- server.Shutdown(sctx)
		}()

		if cfg.API.Token == "" {
			log.Warnln("api.token is empty, write routes are open to anyone who can reach", listen)
		}

		log.WithField("vault", a.deployment.Contracts.CDPVault).Infoln("serve at", listen)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		if err := <-stopped; err != nil {
			logrus.WithError(err).Errorln("graceful shutdown")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().StringP("listen", "l", "127.0.0.1:9000", "listen address")
	serverCmd.Flags().Duration("shutdown-timeout", 3*time.Second, "how long in-flight requests may drain")
}
