package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jesusrangel13/wallet-app/internal/domain/import/row"
)

// preferredSheet is used when a workbook has several sheets; matched
// case-insensitively, falling back to the first sheet.
const preferredSheet = "transactions"

func extractExcel(fileName string, data []byte) (*Extraction, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := findSheet(f)
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnsupportedFormat)
	}

	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(cells) == 0 {
		return nil, ErrEmptyFile
	}

	headers := make([]string, len(cells[0]))
	for i, h := range cells[0] {
		headers[i] = strings.TrimSpace(h)
	}
	if err := checkRequiredHeaders(headers); err != nil {
		return nil, err
	}

	colIndex := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, ok := colIndex[h]; !ok {
			colIndex[h] = i
		}
	}

	ext := &Extraction{
		Kind:     KindExcel,
		FileName: fileName,
		Headers:  headers,
		Rows:     make([]row.ParsedRow, 0, len(cells)-1),
	}

	for i := 1; i < len(cells); i++ {
		if rowIsEmpty(cells[i]) {
			continue
		}
		get := func(header string) string {
			idx, ok := colIndex[header]
			if !ok || idx >= len(cells[i]) {
				return ""
			}
			return strings.TrimSpace(cells[i][idx])
		}
		ext.Rows = append(ext.Rows, liftRecord(rawRecord{
			Date:         get("date"),
			Type:         get("type"),
			Amount:       get("amount"),
			Description:  get("description"),
			Category:     get("category"),
			Tags:         get("tags"),
			Notes:        get("notes"),
			SharedGroup:  get("sharedGroup"),
			PaidBy:       get("paidBy"),
			SplitType:    get("splitType"),
			Participants: get("participants"),
		}, i))
	}

	return ext, nil
}

func findSheet(f *excelize.File) string {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ""
	}
	for _, s := range sheets {
		if strings.EqualFold(s, preferredSheet) {
			return s
		}
	}
	return sheets[0]
}

func rowIsEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
