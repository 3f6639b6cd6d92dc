package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `date,type,amount,description,category,tags,notes,sharedGroup,paidBy,splitType,participants
2024-01-15,EXPENSE,45.50,Weekly groceries,Groceries,"food,weekly",,,,,
2024-01-16,INCOME,5000,Salary,,,,,,,
2024-01-17,EXPENSE,90.00,Team dinner,,,,Trip,alice@example.com,PERCENTAGE,"alice@example.com:50,bob@example.com:50"
`

func TestDetectKind(t *testing.T) {
	t.Run("by extension", func(t *testing.T) {
		kind, err := DetectKind("statement.CSV", "", []byte("a,b"))
		require.NoError(t, err)
		assert.Equal(t, KindCSV, kind)

		kind, err = DetectKind("book.xlsx", "", nil)
		require.NoError(t, err)
		assert.Equal(t, KindExcel, kind)
	})

	t.Run("by content type", func(t *testing.T) {
		kind, err := DetectKind("upload", "text/csv", []byte("a,b"))
		require.NoError(t, err)
		assert.Equal(t, KindCSV, kind)

		kind, err = DetectKind("upload", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil)
		require.NoError(t, err)
		assert.Equal(t, KindExcel, kind)
	})

	t.Run("by magic bytes", func(t *testing.T) {
		kind, err := DetectKind("upload.bin", "", []byte("PK\x03\x04rest"))
		require.NoError(t, err)
		assert.Equal(t, KindExcel, kind)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := DetectKind("scan.pdf", "application/pdf", []byte("%PDF-1.4"))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestExtract_CSV(t *testing.T) {
	t.Run("rows numbered from the first data line", func(t *testing.T) {
		ext, err := Extract("statement.csv", "text/csv", []byte(sampleCSV))
		require.NoError(t, err)
		assert.Equal(t, KindCSV, ext.Kind)
		require.Len(t, ext.Rows, 3)

		first := ext.Rows[0]
		assert.Equal(t, 1, first.RowNumber)
		assert.Equal(t, "2024-01-15", first.Date)
		assert.Equal(t, "EXPENSE", first.Type)
		assert.Equal(t, "45.50", first.Amount)
		assert.Equal(t, "Weekly groceries", first.Description)
		assert.Equal(t, "food,weekly", first.Tags)

		shared := ext.Rows[2]
		assert.Equal(t, 3, shared.RowNumber)
		assert.Equal(t, "Trip", shared.SharedGroup)
		assert.Equal(t, "alice@example.com:50,bob@example.com:50", shared.Participants)
	})

	t.Run("UTF-8 BOM stripped before header check", func(t *testing.T) {
		data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(sampleCSV)...)
		ext, err := Extract("statement.csv", "", data)
		require.NoError(t, err)
		assert.Len(t, ext.Rows, 3)
	})

	t.Run("missing required columns are fatal", func(t *testing.T) {
		_, err := Extract("bad.csv", "", []byte("date,amount,description\n2024-01-15,1,x\n"))
		require.ErrorIs(t, err, ErrMissingHeaders)
		assert.Contains(t, err.Error(), "type")
	})

	t.Run("header case is significant", func(t *testing.T) {
		_, err := Extract("bad.csv", "", []byte("Date,Type,Amount,Description\n"))
		assert.ErrorIs(t, err, ErrMissingHeaders)
	})

	t.Run("empty file is fatal", func(t *testing.T) {
		_, err := Extract("empty.csv", "", nil)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("header-only file extracts zero rows", func(t *testing.T) {
		ext, err := Extract("empty.csv", "", []byte("date,type,amount,description\n"))
		require.NoError(t, err)
		assert.Empty(t, ext.Rows)
	})
}

func buildWorkbook(t *testing.T, sheet string, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for i, cells := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &cells))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestExtract_Excel(t *testing.T) {
	header := []interface{}{"date", "type", "amount", "description", "category"}

	t.Run("reads the first sheet", func(t *testing.T) {
		data := buildWorkbook(t, "Sheet1", [][]interface{}{
			header,
			{"2024-01-15", "EXPENSE", "45.50", "Weekly groceries", "Groceries"},
			{"2024-01-16", "INCOME", "5000", "Salary", ""},
		})

		ext, err := Extract("book.xlsx", "", data)
		require.NoError(t, err)
		assert.Equal(t, KindExcel, ext.Kind)
		require.Len(t, ext.Rows, 2)
		assert.Equal(t, 1, ext.Rows[0].RowNumber)
		assert.Equal(t, "Weekly groceries", ext.Rows[0].Description)
	})

	t.Run("prefers a sheet named transactions", func(t *testing.T) {
		f := excelize.NewFile()
		defer f.Close()

		// Decoy first sheet without the required headers.
		require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"summary", "totals"}))
		_, err := f.NewSheet("Transactions")
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Transactions", "A1", &[]interface{}{"date", "type", "amount", "description"}))
		require.NoError(t, f.SetSheetRow("Transactions", "A2", &[]interface{}{"2024-01-15", "EXPENSE", "45.50", "Coffee"}))

		buf, err := f.WriteToBuffer()
		require.NoError(t, err)

		ext, extractErr := Extract("book.xlsx", "", buf.Bytes())
		require.NoError(t, extractErr)
		require.Len(t, ext.Rows, 1)
		assert.Equal(t, "Coffee", ext.Rows[0].Description)
	})

	t.Run("missing headers are fatal", func(t *testing.T) {
		data := buildWorkbook(t, "Sheet1", [][]interface{}{
			{"date", "amount", "description"},
		})
		_, err := Extract("book.xlsx", "", data)
		assert.ErrorIs(t, err, ErrMissingHeaders)
	})

	t.Run("blank rows are skipped but numbering is positional", func(t *testing.T) {
		data := buildWorkbook(t, "Sheet1", [][]interface{}{
			header,
			{"2024-01-15", "EXPENSE", "45.50", "Coffee", ""},
			{"", "", "", "", ""},
			{"2024-01-17", "EXPENSE", "12.00", "Lunch", ""},
		})

		ext, err := Extract("book.xlsx", "", data)
		require.NoError(t, err)
		require.Len(t, ext.Rows, 2)
		assert.Equal(t, 1, ext.Rows[0].RowNumber)
		assert.Equal(t, 3, ext.Rows[1].RowNumber)
	})
}
