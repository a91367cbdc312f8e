package calculator

import "errors"

var (
	// ErrInvalidSplit reports a split configuration whose percentages do not
	// sum to 100 or whose custom amounts do not sum to the expense amount.
	ErrInvalidSplit = errors.New("invalid split configuration")

	// ErrBalanceNotSettled blocks removing a member who still has a balance
	// under the MustSettle policy.
	ErrBalanceNotSettled = errors.New("member balance is not settled")

	// ErrUnknownMember reports a reference to a member who is not part of
	// the group.
	ErrUnknownMember = errors.New("unknown member")

	// ErrCreatorRequired blocks removing the member who created the group.
	ErrCreatorRequired = errors.New("group creator cannot be removed")
)
