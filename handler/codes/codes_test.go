package codes

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"creditrust/core"

	"github.com/stretchr/testify/assert"
	"github.com/twitchtv/twirp"
)

func TestFrom(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   int
	}{
		{core.ErrInvalidAmount, http.StatusBadRequest, int(core.ErrInvalidAmount)},
		{fmt.Errorf("open: %w", core.NewRevertError(core.ReasonCDPAlreadyExists)), http.StatusPreconditionFailed, int(core.ErrCDPAlreadyExists)},
		{fmt.Errorf("%w: Qm", core.ErrAgreementNotFound), http.StatusNotFound, int(core.ErrAgreementNotFound)},
		{core.ErrConfirmationTimeout, http.StatusRequestTimeout, int(core.ErrConfirmationTimeout)},
		{core.ErrDeploymentInvalid, http.StatusServiceUnavailable, int(core.ErrDeploymentInvalid)},
		{errors.New("db down"), http.StatusInternalServerError, http.StatusInternalServerError},
	}

	for _, c := range cases {
		twerr := From(c.err)
		assert.Equal(t, c.status, twirp.ServerHTTPStatusFromErrorCode(twerr.Code()), c.err.Error())
		assert.Equal(t, c.code, Get(twerr), c.err.Error())
	}
}

func TestFromRevertReason(t *testing.T) {
	twerr := From(core.NewRevertError(core.ReasonInsufficientCollateralRatio))
	assert.Equal(t, core.ReasonInsufficientCollateralRatio, twerr.Meta("reason"))
	assert.Equal(t, core.ErrInsufficientCollateralRatio.Message(), twerr.Msg())
}
