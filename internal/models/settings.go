package models

// DefaultCurrency is used when no currency has been configured.
const DefaultCurrency = "USD"

// Settings holds display preferences for the local user.
type Settings struct {
	// Currency is the ISO 4217 code used to format amounts.
	// Amounts are never converted; one currency applies to all groups.
	Currency string `json:"currency"`

	// UserName is the name given to the local user when creating groups.
	UserName string `json:"user_name"`

	// UserEmail is the optional email of the local user.
	UserEmail string `json:"user_email"`
}
