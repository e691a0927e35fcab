package dto

import (
	"fmt"
	"time"

	"bankbook/internal/apperrors"
)

// DateFormat is the wire format for ledger dates. Transactions and
// checkpoints are dated to the day; times of day carry no meaning here.
const DateFormat = "2006-01-02"

// ParseDate parses a wire-format date into a UTC midnight time.Time.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateFormat, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", apperrors.ErrValidation, value)
	}
	return t, nil
}

// FormatDate renders a time as a wire-format date.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}
