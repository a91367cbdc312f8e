package models

// Balance is a member's net position within a group. It is derived from the
// expense history and never stored.
type Balance struct {
	MemberID string  `json:"member_id"`
	Name     string  `json:"name"`
	Paid     float64 `json:"paid"`    // Sum of amounts this member paid
	Owes     float64 `json:"owes"`    // Sum of this member's split amounts
	Balance  float64 `json:"balance"` // Positive = is owed money, negative = owes money
}
