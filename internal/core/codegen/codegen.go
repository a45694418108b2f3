// Package codegen derives human-readable document codes from party names
// and a timestamp: <PREFIX>-<ClientInitials><CompanyInitials>-<MMDDYY><HHMM>.
//
// All functions are pure: the clock reading is an explicit input, never read
// internally. Code granularity is one minute; two documents for the same
// client+company pair within the same minute receive identical codes. This
// limitation is documented rather than patched, because the visible code
// format is part of the external contract.
package codegen

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"billhub/internal/core/apperror"
)

// Clock supplies the current time. Services hold one so tests can pin it.
type Clock func() time.Time

// PlaceholderInitials substitutes for an empty name source.
const PlaceholderInitials = "XX"

const maxInitials = 2

// Initials returns the first letter of each whitespace-separated token,
// upper-cased and truncated to two characters. Empty input yields the
// fixed placeholder.
func Initials(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return PlaceholderInitials
	}

	var b strings.Builder
	for _, f := range fields {
		if b.Len() == maxInitials {
			break
		}
		r := []rune(f)[0]
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// Code builds a document code for the given kind prefix, party names and
// timestamp. Timestamp fields are zero-padded to fixed width.
func Code(prefix, clientName, companyName string, at time.Time) string {
	return fmt.Sprintf("%s-%s%s-%02d%02d%02d%02d%02d",
		prefix,
		Initials(clientName),
		Initials(companyName),
		int(at.Month()), at.Day(), at.Year()%100,
		at.Hour(), at.Minute(),
	)
}

// SwapPrefix replaces the kind prefix of an existing code, keeping the
// suffix verbatim. Derived documents (invoice from quotation, receipt from
// invoice) share the suffix of their origin.
func SwapPrefix(code, newPrefix string) (string, error) {
	idx := strings.Index(code, "-")
	if idx <= 0 {
		return "", apperror.NewValidation("document code has no kind prefix").
			WithDetail("code", code)
	}
	return newPrefix + code[idx:], nil
}
