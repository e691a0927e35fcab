package domain

import "errors"

var (
	// ErrBothAmountsSet is returned when a transaction carries both a debit
	// and a credit amount.
	ErrBothAmountsSet = errors.New("transaction must not have both debit and credit amounts")
	// ErrNoAmountSet is returned when a transaction carries neither amount.
	ErrNoAmountSet = errors.New("transaction must have a debit or a credit amount")
	// ErrNonPositiveAmount is returned when the populated amount is zero or negative.
	ErrNonPositiveAmount = errors.New("transaction amount must be positive")
)
