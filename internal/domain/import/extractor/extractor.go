// Package extractor decodes an uploaded spreadsheet (CSV or XLSX workbook)
// into raw candidate-transaction rows. It uses gocsv for struct-based
// unmarshaling of CSV files and excelize for workbooks, auto-detecting the
// format from the file extension, content type, or magic bytes.
package extractor

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/jesusrangel13/wallet-app/internal/domain/import/row"
)

// Kind identifies the detected file format.
type Kind string

const (
	KindCSV   Kind = "csv"
	KindExcel Kind = "xlsx"
)

// Extraction errors are fatal to the whole import session: no partial result
// is kept when the file itself cannot be read.
var (
	ErrEmptyFile         = errors.New("file is empty")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrMissingHeaders    = errors.New("missing required columns")
)

// Required column headers, matched case-sensitively as written.
var requiredHeaders = []string{"date", "type", "amount", "description"}

// rawRecord is one spreadsheet row unmarshaled by header name. This is the
// ephemeral header-keyed form; it is lifted into a row.ParsedRow immediately.
type rawRecord struct {
	Date         string `csv:"date"`
	Type         string `csv:"type"`
	Amount       string `csv:"amount"`
	Description  string `csv:"description"`
	Category     string `csv:"category"`
	Tags         string `csv:"tags"`
	Notes        string `csv:"notes"`
	SharedGroup  string `csv:"sharedGroup"`
	PaidBy       string `csv:"paidBy"`
	SplitType    string `csv:"splitType"`
	Participants string `csv:"participants"`
}

// Extraction is the decoded file: unvalidated rows numbered 1-based from the
// first data line (header excluded).
type Extraction struct {
	Kind     Kind
	FileName string
	Headers  []string
	Rows     []row.ParsedRow
}

// Extract decodes the uploaded file into rows. The format is detected from
// the file name extension first, then the content type, then magic bytes.
func Extract(fileName, contentType string, data []byte) (*Extraction, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	kind, err := DetectKind(fileName, contentType, data)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindExcel:
		return extractExcel(fileName, data)
	default:
		return extractCSV(fileName, data)
	}
}

// DetectKind determines the file format without decoding it.
func DetectKind(fileName, contentType string, data []byte) (Kind, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return KindCSV, nil
	case ".xlsx", ".xlsm":
		return KindExcel, nil
	}

	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "csv"), strings.Contains(ct, "text/plain"):
		return KindCSV, nil
	case strings.Contains(ct, "spreadsheetml"), strings.Contains(ct, "ms-excel"):
		return KindExcel, nil
	}

	// XLSX workbooks are zip archives.
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		return KindExcel, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, fileName)
}

func extractCSV(fileName string, data []byte) (*Extraction, error) {
	data = stripUTF8BOM(data)

	headers, err := readHeaderLine(data)
	if err != nil {
		return nil, err
	}
	if err := checkRequiredHeaders(headers); err != nil {
		return nil, err
	}

	var records []rawRecord
	if err := gocsv.UnmarshalBytes(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	ext := &Extraction{
		Kind:     KindCSV,
		FileName: fileName,
		Headers:  headers,
		Rows:     make([]row.ParsedRow, 0, len(records)),
	}
	for i, rec := range records {
		ext.Rows = append(ext.Rows, liftRecord(rec, i+1))
	}
	return ext, nil
}

// readHeaderLine decodes only the header row so required columns can be
// checked before the full unmarshal.
func readHeaderLine(data []byte) ([]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	headers, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}
	return headers, nil
}

func checkRequiredHeaders(headers []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	var missing []string
	for _, want := range requiredHeaders {
		if !present[want] {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingHeaders, strings.Join(missing, ", "))
	}
	return nil
}

func liftRecord(rec rawRecord, rowNumber int) row.ParsedRow {
	return row.ParsedRow{
		RowNumber:    rowNumber,
		Date:         strings.TrimSpace(rec.Date),
		Type:         strings.TrimSpace(rec.Type),
		Amount:       strings.TrimSpace(rec.Amount),
		Description:  strings.TrimSpace(rec.Description),
		Category:     strings.TrimSpace(rec.Category),
		Tags:         strings.TrimSpace(rec.Tags),
		Notes:        strings.TrimSpace(rec.Notes),
		SharedGroup:  strings.TrimSpace(rec.SharedGroup),
		PaidBy:       strings.TrimSpace(rec.PaidBy),
		SplitType:    strings.TrimSpace(rec.SplitType),
		Participants: strings.TrimSpace(rec.Participants),
	}
}

func stripUTF8BOM(data []byte) []byte {
	return bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
}
