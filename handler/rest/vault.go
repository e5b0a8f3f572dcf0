package rest

import (
	"net/http"

	"creditrust/core"
	"creditrust/handler/render"
	"creditrust/handler/views"
	"creditrust/pkg/number"

	"golang.org/x/sync/errgroup"
)

func deploymentHandler(deployment *core.Deployment) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, views.Deployment{Deployment: deployment})
	}
}

// vaultHandler live vault parameters, liquidity is the debt token the
// vault holds
func vaultHandler(deployment *core.Deployment, vault core.Vault, debtToken core.Token) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := views.Vault{
			Address:         vault.Address().Hex(),
			ChainID:         deployment.ChainID,
			Network:         deployment.Network,
			CollateralToken: deployment.CollateralTokenAddress().Hex(),
			DebtToken:       debtToken.Address().Hex(),
		}

		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			ratio, err := vault.MinCollateralRatio(ctx)
			if err == nil {
				view.MinCollateralRatio = ratio.Int64()
			}
			return err
		})
		g.Go(func() error {
			balance, err := debtToken.BalanceOf(ctx, vault.Address())
			if err == nil {
				view.Liquidity = number.FromWei(balance, tokenDecimals).String()
			}
			return err
		})

		if err := g.Wait(); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, view)
	}
}
