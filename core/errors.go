package core

import (
	"errors"
	"strconv"
	"strings"
)

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unclassified failure
	ErrUnknown ErrorCode = 100000
	// ErrOperationForbidden operation forbidden
	ErrOperationForbidden ErrorCode = 100001
	// ErrInvalidArgument invalid argument
	ErrInvalidArgument ErrorCode = 100002

	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100100
	// ErrInsufficientCollateralRatio collateral ratio below MIN_COLLATERAL_RATIO
	ErrInsufficientCollateralRatio ErrorCode = 100101
	// ErrCDPAlreadyExists caller already has an active cdp
	ErrCDPAlreadyExists ErrorCode = 100102
	// ErrNoActiveCDP caller has no active cdp
	ErrNoActiveCDP ErrorCode = 100103
	// ErrCollateralTransferFailed collateral transferFrom failed
	ErrCollateralTransferFailed ErrorCode = 100104
	// ErrLoanTransferFailed loan payout failed
	ErrLoanTransferFailed ErrorCode = 100105
	// ErrInvalidCreditScore credit score out of range
	ErrInvalidCreditScore ErrorCode = 100106
	// ErrInsufficientLiquidity vault liquidity too low
	ErrInsufficientLiquidity ErrorCode = 100107
	// ErrNoLenderPosition caller has no active lender position
	ErrNoLenderPosition ErrorCode = 100108
	// ErrInsufficientStake withdraw exceeds stake plus rewards
	ErrInsufficientStake ErrorCode = 100109
	// ErrInsufficientBalance erc20 balance too low
	ErrInsufficientBalance ErrorCode = 100110
	// ErrInsufficientAllowance erc20 allowance too low
	ErrInsufficientAllowance ErrorCode = 100111

	// ErrTransactionReverted mined with status 0
	ErrTransactionReverted ErrorCode = 100200
	// ErrConfirmationTimeout receipt not observed in time
	ErrConfirmationTimeout ErrorCode = 100201
	// ErrSignerNotFound no private key for the sender
	ErrSignerNotFound ErrorCode = 100202

	// ErrAgreementNotFound no agreement with that cid
	ErrAgreementNotFound ErrorCode = 100300
	// ErrAgreementMismatch stored content does not hash to its cid
	ErrAgreementMismatch ErrorCode = 100301
	// ErrDeploymentInvalid deployment config is malformed or stale
	ErrDeploymentInvalid ErrorCode = 100302
)

var errorMessages = map[ErrorCode]string{
	ErrUnknown:                     "the transaction failed for an unknown reason",
	ErrOperationForbidden:          "operation forbidden",
	ErrInvalidArgument:             "invalid argument",
	ErrInvalidAmount:               "amount must be greater than zero",
	ErrInsufficientCollateralRatio: "not enough collateral for this loan, add collateral or borrow less",
	ErrCDPAlreadyExists:            "this wallet already has an open CDP",
	ErrNoActiveCDP:                 "open a CDP before borrowing",
	ErrCollateralTransferFailed:    "collateral transfer failed, check token balance and approval",
	ErrLoanTransferFailed:          "the vault could not send the loan, try a smaller amount",
	ErrInvalidCreditScore:          "credit score must be between 300 and 850",
	ErrInsufficientLiquidity:       "the vault does not hold enough liquidity",
	ErrNoLenderPosition:            "this wallet has no active lender position",
	ErrInsufficientStake:           "withdraw amount exceeds staked balance and rewards",
	ErrInsufficientBalance:         "token balance too low",
	ErrInsufficientAllowance:       "token approval too low",
	ErrTransactionReverted:         "the transaction was reverted",
	ErrConfirmationTimeout:         "the transaction was not confirmed in time",
	ErrSignerNotFound:              "no signing key configured for this account",
	ErrAgreementNotFound:           "loan agreement not found",
	ErrAgreementMismatch:           "loan agreement content does not match its identifier",
	ErrDeploymentInvalid:           "deployment info is invalid or stale, redeploy or update the deployment file",
}

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}

// Message user facing message
func (e ErrorCode) Message() string {
	if msg, ok := errorMessages[e]; ok {
		return msg
	}

	return errorMessages[ErrUnknown]
}

// revert reasons emitted by the vault and the mock tokens
const (
	ReasonInsufficientCollateralRatio = "Insufficient collateral ratio"
	ReasonCDPAlreadyExists            = "CDP already exists"
	ReasonNoActiveCDP                 = "No active CDP"
	ReasonCollateralTransferFailed    = "Collateral transfer failed"
	ReasonLoanTransferFailed          = "Loan transfer failed"
	ReasonInvalidAmount               = "Amount must be greater than 0"
	ReasonInvalidCreditScore          = "Invalid credit score"
	ReasonInsufficientLiquidity       = "Insufficient vault liquidity"
	ReasonNoLenderPosition            = "No active lender position"
	ReasonInsufficientStake           = "Insufficient stake"
	ReasonInsufficientBalance         = "ERC20: transfer amount exceeds balance"
	ReasonInsufficientAllowance       = "ERC20: insufficient allowance"
)

var revertReasons = []struct {
	reason string
	code   ErrorCode
}{
	{ReasonInsufficientCollateralRatio, ErrInsufficientCollateralRatio},
	{ReasonCDPAlreadyExists, ErrCDPAlreadyExists},
	{ReasonNoActiveCDP, ErrNoActiveCDP},
	{ReasonCollateralTransferFailed, ErrCollateralTransferFailed},
	{ReasonLoanTransferFailed, ErrLoanTransferFailed},
	{ReasonInvalidAmount, ErrInvalidAmount},
	{ReasonInvalidCreditScore, ErrInvalidCreditScore},
	{ReasonInsufficientLiquidity, ErrInsufficientLiquidity},
	{ReasonNoLenderPosition, ErrNoLenderPosition},
	{ReasonInsufficientStake, ErrInsufficientStake},
	{ReasonInsufficientBalance, ErrInsufficientBalance},
	{ReasonInsufficientAllowance, ErrInsufficientAllowance},
}

// ClassifyRevert maps a revert reason (or a whole rpc error message that
// contains one) to an ErrorCode. Unmatched reasons are ErrUnknown.
func ClassifyRevert(reason string) ErrorCode {
	for _, r := range revertReasons {
		if strings.Contains(reason, r.reason) {
			return r.code
		}
	}

	return ErrUnknown
}

// RevertError a call reverted on chain with a reason string
type RevertError struct {
	Reason string
	Code   ErrorCode
}

// NewRevertError classify reason and wrap it
func NewRevertError(reason string) *RevertError {
	return &RevertError{
		Reason: reason,
		Code:   ClassifyRevert(reason),
	}
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return "execution reverted"
	}

	return "execution reverted: " + e.Reason
}

func (e *RevertError) Unwrap() error {
	return e.Code
}

// CodeOf extract the ErrorCode carried by err, ErrUnknown if none
func CodeOf(err error) ErrorCode {
	var code ErrorCode
	if errors.As(err, &code) {
		return code
	}

	return ErrUnknown
}
