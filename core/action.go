package core

// ActionType user operation against the vault
type ActionType string

const (
	ActionTypeOpenCDP         ActionType = "open_cdp"
	ActionTypeRequestLoan     ActionType = "request_loan"
	ActionTypeRepay           ActionType = "repay"
	ActionTypeAddCollateral   ActionType = "add_collateral"
	ActionTypeStake           ActionType = "stake"
	ActionTypeWithdraw        ActionType = "withdraw"
	ActionTypeCompoundRewards ActionType = "compound_rewards"
)

func (a ActionType) String() string {
	return string(a)
}

// ApproveToken which vault token the action pulls from the caller
type ApproveToken int

const (
	ApproveNone ApproveToken = iota
	ApproveCollateral
	ApproveDebt
)

// Approval token the action needs approved before it runs
func (a ActionType) Approval() ApproveToken {
	switch a {
	case ActionTypeOpenCDP, ActionTypeAddCollateral:
		return ApproveCollateral
	case ActionTypeRepay, ActionTypeStake:
		return ApproveDebt
	default:
		return ApproveNone
	}
}

// Valid known action
func (a ActionType) Valid() bool {
	switch a {
	case ActionTypeOpenCDP,
		ActionTypeRequestLoan,
		ActionTypeRepay,
		ActionTypeAddCollateral,
		ActionTypeStake,
		ActionTypeWithdraw,
		ActionTypeCompoundRewards:
		return true
	}

	return false
}
