// Package materializer converts validated rows into the persistence-ready
// batch shape consumed by the external import executor. Category names are
// resolved to catalog identifiers here; everything downstream works with IDs.
package materializer

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jesusrangel13/wallet-app/internal/domain/import/extractor"
	"github.com/jesusrangel13/wallet-app/internal/domain/import/normalizer"
	"github.com/jesusrangel13/wallet-app/internal/domain/import/row"
	"github.com/jesusrangel13/wallet-app/pkg/catalog"
	"github.com/jesusrangel13/wallet-app/pkg/money"
)

const dateLayout = "2006-01-02"

// SharedBlock is the shared-expense detail passed through verbatim;
// the backend interprets the participant encoding.
type SharedBlock struct {
	Group        string `json:"sharedGroup"`
	PaidBy       string `json:"paidBy"`
	SplitType    string `json:"splitType"`
	Participants string `json:"participants"`
}

// TransactionPayload is one transaction in the submitted batch. RowNumber is
// kept so server-side failures can be surfaced against the original file row.
type TransactionPayload struct {
	RowNumber    int             `json:"rowNumber"`
	Date         string          `json:"date"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	AmountMinor  int64           `json:"amountMinor"`
	CurrencyCode string          `json:"currencyCode"`
	Description  string          `json:"description"`
	CategoryID   *uuid.UUID      `json:"categoryId,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	Shared       *SharedBlock    `json:"shared,omitempty"`
}

// Batch is the materialized import request plus its metadata.
type Batch struct {
	AccountID    uuid.UUID            `json:"accountId"`
	FileName     string               `json:"fileName"`
	FileKind     string               `json:"fileKind"`
	Transactions []TransactionPayload `json:"transactions"`
}

// Options configures batch materialization.
type Options struct {
	AccountID    uuid.UUID
	FileName     string
	FileKind     extractor.Kind
	CurrencyCode string
	// IncludeInvalid submits rows that failed validation as-is ("import
	// anyway"); they are expected to fail server-side.
	IncludeInvalid bool
}

// Materialize builds the batch from rows with IsValid() == true, or from all
// rows when IncludeInvalid is set. Rows keep their file order.
func Materialize(rows []row.ParsedRow, categories *catalog.Catalog, opts Options) *Batch {
	batch := &Batch{
		AccountID:    opts.AccountID,
		FileName:     opts.FileName,
		FileKind:     string(opts.FileKind),
		Transactions: make([]TransactionPayload, 0, len(rows)),
	}
	for _, r := range rows {
		if !r.IsValid() && !opts.IncludeInvalid {
			continue
		}
		batch.Transactions = append(batch.Transactions, materializeRow(r, categories, opts.CurrencyCode))
	}
	return batch
}

func materializeRow(r row.ParsedRow, categories *catalog.Catalog, currencyCode string) TransactionPayload {
	p := TransactionPayload{
		RowNumber:    r.RowNumber,
		Date:         canonicalDate(r.Date),
		Description:  strings.TrimSpace(r.Description),
		CurrencyCode: currencyCode,
		Notes:        strings.TrimSpace(r.Notes),
		Tags:         splitTags(r.Tags),
	}

	if t, ok := row.ParseTransactionType(r.Type); ok {
		p.Type = t
	} else {
		p.Type = strings.ToUpper(strings.TrimSpace(r.Type))
	}

	if amount, err := decimal.NewFromString(strings.TrimSpace(r.Amount)); err == nil {
		p.Amount = amount
		p.AmountMinor = money.MinorUnits(amount, currencyCode)
	}

	if id, ok := resolveCategory(r, categories); ok {
		p.CategoryID = &id
	}

	if strings.TrimSpace(r.SharedGroup) != "" {
		p.Shared = &SharedBlock{
			Group:        strings.TrimSpace(r.SharedGroup),
			PaidBy:       strings.TrimSpace(r.PaidBy),
			SplitType:    strings.ToUpper(strings.TrimSpace(r.SplitType)),
			Participants: strings.TrimSpace(r.Participants),
		}
	}

	return p
}

// canonicalDate re-derives the ISO form from the raw value rather than
// trusting the display string. Invalid dates (possible under IncludeInvalid)
// pass through raw for the server to reject.
func canonicalDate(raw string) string {
	if t, ok := normalizer.NormalizeDate(raw); ok {
		return t.Format(dateLayout)
	}
	return strings.TrimSpace(raw)
}

// resolveCategory prefers the matcher's suggestion over the raw input, in
// both cases only on an exact catalog hit.
func resolveCategory(r row.ParsedRow, categories *catalog.Catalog) (uuid.UUID, bool) {
	if r.SuggestedCategory != "" {
		if e, ok := categories.Lookup(r.SuggestedCategory); ok {
			return e.ID, true
		}
	}
	if r.Category != "" {
		if e, ok := categories.Lookup(r.Category); ok {
			return e.ID, true
		}
	}
	return uuid.UUID{}, false
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
