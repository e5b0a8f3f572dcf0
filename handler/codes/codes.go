package codes

import (
	"errors"
	"strconv"

	"creditrust/core"

	"github.com/twitchtv/twirp"
)

const (
	// CustomCodeKey code key
	CustomCodeKey = "custom_code"
)

// With with specified error
func With(err error, code int) twirp.Error {
	twerr, ok := err.(twirp.Error)
	if !ok {
		twerr = twirp.InternalErrorWith(err)
	}

	return twerr.WithMeta(CustomCodeKey, strconv.Itoa(code))
}

// twirpCode error class of a domain error code
func twirpCode(code core.ErrorCode) twirp.ErrorCode {
	switch code {
	case core.ErrInvalidArgument, core.ErrInvalidAmount, core.ErrInvalidCreditScore:
		return twirp.InvalidArgument
	case core.ErrOperationForbidden, core.ErrSignerNotFound:
		return twirp.PermissionDenied
	case core.ErrAgreementNotFound:
		return twirp.NotFound
	case core.ErrAgreementMismatch:
		return twirp.DataLoss
	case core.ErrConfirmationTimeout:
		return twirp.DeadlineExceeded
	case core.ErrDeploymentInvalid:
		return twirp.Unavailable
	case core.ErrTransactionReverted, core.ErrUnknown:
		return twirp.Aborted
	default:
		// every classified revert: the vault refused in its current state
		return twirp.FailedPrecondition
	}
}

// From convert err to a twirp error carrying the domain code, errors
// without a domain code are internal
func From(err error) twirp.Error {
	if twerr, ok := err.(twirp.Error); ok {
		return twerr
	}

	var code core.ErrorCode
	if !errors.As(err, &code) {
		return twirp.InternalErrorWith(err)
	}

	twerr := With(twirp.NewError(twirpCode(code), code.Message()), int(code))

	var reverted *core.RevertError
	if errors.As(err, &reverted) && reverted.Reason != "" {
		twerr = twerr.WithMeta("reason", reverted.Reason)
	}

	return twerr
}

// Get custom code of twerr, falling back to its http status
func Get(twerr twirp.Error) int {
	if v := twerr.Meta(CustomCodeKey); v != "" {
		if code, err := strconv.Atoi(v); err == nil {
			return code
		}
	}

	return twirp.ServerHTTPStatusFromErrorCode(twerr.Code())
}
