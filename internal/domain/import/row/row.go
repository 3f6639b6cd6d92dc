// Package row defines the candidate-transaction record produced by the
// extractor and the pure validation pass run over it. A ParsedRow keeps the
// user's raw input alongside the derived review state (errors, suggestion,
// edited flag) so the edit loop can re-validate a single row without touching
// any rendering concern.
package row

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jesusrangel13/wallet-app/internal/domain/import/categorizer"
	"github.com/jesusrangel13/wallet-app/internal/domain/import/normalizer"
	"github.com/jesusrangel13/wallet-app/internal/domain/import/split"
	"github.com/jesusrangel13/wallet-app/pkg/catalog"
)

// Transaction kinds accepted in the type column. Input is matched
// case-insensitively; the canonical values are upper-case.
const (
	TypeExpense  = "EXPENSE"
	TypeIncome   = "INCOME"
	TypeTransfer = "TRANSFER"
)

// ParseTransactionType resolves a raw type cell to its canonical value.
func ParseTransactionType(raw string) (string, bool) {
	switch t := strings.ToUpper(strings.TrimSpace(raw)); t {
	case TypeExpense, TypeIncome, TypeTransfer:
		return t, true
	}
	return "", false
}

// ParsedRow is one candidate transaction under review.
//
// RowNumber is the 1-based position in the original file (header line
// excluded). It is immutable and is the sole key used to address a row for
// editing; it never collides within one session.
type ParsedRow struct {
	RowNumber int

	// Raw input as supplied, retained for display and editing.
	Date         string
	Type         string
	Amount       string
	Description  string
	Category     string
	Tags         string
	Notes        string
	SharedGroup  string
	PaidBy       string
	SplitType    string
	Participants string

	// Derived review state.
	Errors            []string
	SuggestedCategory string
	IsEdited          bool
}

// IsValid reports whether the last validation pass found no problems.
func (r ParsedRow) IsValid() bool { return len(r.Errors) == 0 }

// Verdict is the outcome of one validation pass.
type Verdict struct {
	Errors            []string
	SuggestedCategory string
}

// IsValid mirrors the row invariant: valid iff no errors.
func (v Verdict) IsValid() bool { return len(v.Errors) == 0 }

// Validate runs every field check over the row and returns the ordered error
// list plus a category suggestion. It never mutates its input and never
// short-circuits: a row reports all of its problems at once. Given identical
// inputs and catalogs the verdict is identical, which the edit loop relies on.
func Validate(r ParsedRow, categories *catalog.Catalog, groups *catalog.Catalog) Verdict {
	var v Verdict

	// Date.
	if strings.TrimSpace(r.Date) == "" {
		v.Errors = append(v.Errors, "Date is required")
	} else if _, ok := normalizer.NormalizeDate(r.Date); !ok {
		v.Errors = append(v.Errors, fmt.Sprintf("Invalid date: %q", r.Date))
	}

	// Type.
	if strings.TrimSpace(r.Type) == "" {
		v.Errors = append(v.Errors, "Type is required")
	} else if _, ok := ParseTransactionType(r.Type); !ok {
		v.Errors = append(v.Errors, "Type must be one of EXPENSE, INCOME or TRANSFER")
	}

	// Amount.
	amount := decimal.Zero
	amountKnown := false
	if strings.TrimSpace(r.Amount) == "" {
		v.Errors = append(v.Errors, "Amount is required")
	} else if parsed, err := decimal.NewFromString(strings.TrimSpace(r.Amount)); err != nil {
		v.Errors = append(v.Errors, "Amount must be a number")
	} else if !parsed.IsPositive() {
		v.Errors = append(v.Errors, "Amount must be a positive number")
	} else {
		amount = parsed
		amountKnown = true
	}

	// Description.
	if strings.TrimSpace(r.Description) == "" {
		v.Errors = append(v.Errors, "Description is required")
	}

	// Category suggestion. Not an error either way: unmatched input stays
	// uncategorized.
	if strings.TrimSpace(r.Category) != "" && categories.Len() > 0 {
		if suggestion, ok := categorizer.Suggest(r.Category, categories.Names()); ok {
			v.SuggestedCategory = suggestion
		}
	}

	v.Errors = append(v.Errors, validateSharedBlock(r, groups, amount, amountKnown)...)
	return v
}

// validateSharedBlock enforces the all-or-nothing shared-expense field group
// and delegates participant parsing to the split package.
func validateSharedBlock(r ParsedRow, groups *catalog.Catalog, amount decimal.Decimal, amountKnown bool) []string {
	sharedGroup := strings.TrimSpace(r.SharedGroup)
	paidBy := strings.TrimSpace(r.PaidBy)
	rawSplitType := strings.TrimSpace(r.SplitType)
	participants := strings.TrimSpace(r.Participants)

	if sharedGroup == "" {
		if paidBy != "" || rawSplitType != "" || participants != "" {
			return []string{"Shared group is required when shared expense fields are set"}
		}
		return nil
	}

	var errs []string
	if groups.Len() > 0 && !groups.Contains(sharedGroup) {
		errs = append(errs, fmt.Sprintf("Unknown group: %q", sharedGroup))
	}
	if paidBy == "" {
		errs = append(errs, "Paid by is required for shared expenses")
	}

	splitType, typeOK := split.ParseType(rawSplitType)
	if rawSplitType == "" {
		errs = append(errs, "Split type is required for shared expenses")
	} else if !typeOK {
		errs = append(errs, "Split type must be one of EQUAL, PERCENTAGE, SHARES or EXACT")
	}

	if participants == "" {
		errs = append(errs, "Participants are required for shared expenses")
	} else if typeOK {
		result := split.ParseParticipants(participants, splitType, amount, amountKnown)
		errs = append(errs, result.Errors...)
	}

	return errs
}
