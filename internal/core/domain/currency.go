package domain

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key (e.g., "USD")
	Symbol       string `json:"symbol"`       // e.g., "$"
	Name         string `json:"name"`         // e.g., "US Dollar"
	// Precision is the number of minor-unit digits (2 for USD, 0 for JPY).
	// One minor unit is the reconciliation threshold for accounts in this
	// currency.
	Precision int `json:"precision"`
	AuditFields
}
