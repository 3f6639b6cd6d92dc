// Package session holds the in-memory state of one import: every parsed row
// with its validation verdict, addressable by row number for the
// edit/re-validate loop. Rows live until the user resets the session or
// navigates away; nothing here is persisted.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jesusrangel13/wallet-app/internal/domain/import/extractor"
	"github.com/jesusrangel13/wallet-app/internal/domain/import/row"
	"github.com/jesusrangel13/wallet-app/pkg/catalog"
)

var (
	// ErrRowNotFound is returned when an edit addresses a row number the
	// session does not hold.
	ErrRowNotFound = errors.New("row not found")
	// ErrDuplicateRowNumber rejects extractions whose row numbers collide;
	// the row number is the sole edit key and must be unique.
	ErrDuplicateRowNumber = errors.New("duplicate row number")
)

// Session is the mutable review state between extraction and submission.
// Edits are serialized by the caller (one row open at a time), so no locking
// is needed.
type Session struct {
	fileName   string
	kind       extractor.Kind
	rows       []row.ParsedRow
	index      map[int]int // row number -> slice position
	categories *catalog.Catalog
	groups     *catalog.Catalog
}

// New validates every extracted row and builds the session.
func New(ext *extractor.Extraction, categories, groups *catalog.Catalog) (*Session, error) {
	s := &Session{
		fileName:   ext.FileName,
		kind:       ext.Kind,
		rows:       make([]row.ParsedRow, len(ext.Rows)),
		index:      make(map[int]int, len(ext.Rows)),
		categories: categories,
		groups:     groups,
	}
	copy(s.rows, ext.Rows)

	for i := range s.rows {
		n := s.rows[i].RowNumber
		if _, exists := s.index[n]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateRowNumber, n)
		}
		s.index[n] = i
		applyVerdict(&s.rows[i], row.Validate(s.rows[i], categories, groups))
	}
	return s, nil
}

// FileName returns the original upload name.
func (s *Session) FileName() string { return s.fileName }

// Kind returns the detected file format.
func (s *Session) Kind() extractor.Kind { return s.kind }

// Rows returns a copy of all rows in file order.
func (s *Session) Rows() []row.ParsedRow {
	out := make([]row.ParsedRow, len(s.rows))
	copy(out, s.rows)
	return out
}

// Row returns a copy of the row with the given number.
func (s *Session) Row(rowNumber int) (row.ParsedRow, bool) {
	i, ok := s.index[rowNumber]
	if !ok {
		return row.ParsedRow{}, false
	}
	return s.rows[i], true
}

// ValidRows returns copies of the rows that currently pass validation.
func (s *Session) ValidRows() []row.ParsedRow {
	return s.filter(true)
}

// InvalidRows returns copies of the rows that currently fail validation.
func (s *Session) InvalidRows() []row.ParsedRow {
	return s.filter(false)
}

func (s *Session) filter(valid bool) []row.ParsedRow {
	var out []row.ParsedRow
	for _, r := range s.rows {
		if r.IsValid() == valid {
			out = append(out, r)
		}
	}
	return out
}

// Counts returns the number of valid and invalid rows.
func (s *Session) Counts() (valid, invalid int) {
	for _, r := range s.rows {
		if r.IsValid() {
			valid++
		} else {
			invalid++
		}
	}
	return valid, invalid
}

// Reset discards every row; the session is then empty.
func (s *Session) Reset() {
	s.rows = nil
	s.index = map[int]int{}
}

// RowEdit carries the fields a user changed. Nil pointers leave the current
// value untouched.
type RowEdit struct {
	Date         *string
	Type         *string
	Amount       *string
	Description  *string
	Category     *string
	Tags         *string
	Notes        *string
	SharedGroup  *string
	PaidBy       *string
	SplitType    *string
	Participants *string
}

// EditRow applies the edit to exactly one row, re-validates it, marks it
// edited, and returns the updated copy. No other row's fields, errors, or
// edited flag change.
func (s *Session) EditRow(rowNumber int, edit RowEdit) (row.ParsedRow, error) {
	i, ok := s.index[rowNumber]
	if !ok {
		return row.ParsedRow{}, fmt.Errorf("%w: %d", ErrRowNotFound, rowNumber)
	}

	r := &s.rows[i]
	applyEdit(r, edit)
	applyVerdict(r, row.Validate(*r, s.categories, s.groups))
	r.IsEdited = true
	return *r, nil
}

func applyEdit(r *row.ParsedRow, edit RowEdit) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&r.Date, edit.Date)
	set(&r.Type, edit.Type)
	set(&r.Amount, edit.Amount)
	set(&r.Description, edit.Description)
	set(&r.Category, edit.Category)
	set(&r.Tags, edit.Tags)
	set(&r.Notes, edit.Notes)
	set(&r.SharedGroup, edit.SharedGroup)
	set(&r.PaidBy, edit.PaidBy)
	set(&r.SplitType, edit.SplitType)
	set(&r.Participants, edit.Participants)
}

func applyVerdict(r *row.ParsedRow, v row.Verdict) {
	r.Errors = v.Errors
	r.SuggestedCategory = v.SuggestedCategory
}
