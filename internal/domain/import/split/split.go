// Package split parses the compact textual encoding of shared-expense
// participant lists and validates the arithmetic for each split strategy.
// Values are decimal, so percentage and exact-amount sums are checked without
// binary floating-point error.
package split

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Type is the strategy for dividing a shared expense among participants.
type Type string

const (
	Equal      Type = "EQUAL"
	Percentage Type = "PERCENTAGE"
	Shares     Type = "SHARES"
	Exact      Type = "EXACT"
)

var hundred = decimal.NewFromInt(100)

// ParseType resolves a raw split-type value, accepting any casing.
func ParseType(raw string) (Type, bool) {
	switch Type(strings.ToUpper(strings.TrimSpace(raw))) {
	case Equal:
		return Equal, true
	case Percentage:
		return Percentage, true
	case Shares:
		return Shares, true
	case Exact:
		return Exact, true
	}
	return "", false
}

// Participant is one decoded entry of the participants field. Value is only
// meaningful when HasValue is set (EQUAL entries carry no value).
type Participant struct {
	Email    string
	Value    decimal.Decimal
	HasValue bool
}

// Result holds the decoded participants and any validation errors. Errors are
// row-level messages, never panics or Go errors.
type Result struct {
	Participants []Participant
	Errors       []string
}

// Valid reports whether parsing and arithmetic checks all passed.
func (r Result) Valid() bool { return len(r.Errors) == 0 }

// ParseParticipants decodes a comma-separated participant list under the
// given split strategy. For EXACT splits the transaction total is required
// for the conservation check; pass totalKnown=false when the amount itself
// failed validation, which skips the sum check and validates shape only.
func ParseParticipants(text string, splitType Type, total decimal.Decimal, totalKnown bool) Result {
	var res Result

	entries := strings.Split(text, ",")
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			res.Errors = append(res.Errors, "Participants list contains an empty entry")
			continue
		}

		if splitType == Equal {
			if strings.Contains(entry, ":") {
				res.Errors = append(res.Errors, fmt.Sprintf("Participant %q must not include a value for EQUAL splits", entry))
				continue
			}
			res.Participants = append(res.Participants, Participant{Email: entry})
			continue
		}

		email, rawValue, ok := strings.Cut(entry, ":")
		email = strings.TrimSpace(email)
		if !ok || email == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("Invalid participant entry %q: expected email:value", entry))
			continue
		}
		value, err := decimal.NewFromString(strings.TrimSpace(rawValue))
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Invalid participant entry %q: expected email:value", entry))
			continue
		}
		res.Participants = append(res.Participants, Participant{Email: email, Value: value, HasValue: true})
	}

	// Arithmetic checks only make sense once every entry decoded.
	if len(res.Errors) > 0 {
		return res
	}

	switch splitType {
	case Percentage:
		sum := sumValues(res.Participants)
		if !sum.Equal(hundred) {
			res.Errors = append(res.Errors, fmt.Sprintf("Percentages must sum to 100, got %s", sum))
		}
	case Exact:
		if totalKnown {
			sum := sumValues(res.Participants)
			if !sum.Equal(total) {
				res.Errors = append(res.Errors, fmt.Sprintf("Exact split amounts must sum to %s, got %s", total, sum))
			}
		}
	case Shares:
		for _, p := range res.Participants {
			if !p.Value.IsInteger() || !p.Value.IsPositive() {
				res.Errors = append(res.Errors, fmt.Sprintf("Share value for %s must be a positive whole number", p.Email))
			}
		}
	}

	return res
}

func sumValues(participants []Participant) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range participants {
		sum = sum.Add(p.Value)
	}
	return sum
}
