package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	err := WriteWorkbook(&buf,
		Sheet{Name: "Sales Trend", Headers: []string{"Date", "Orders", "Revenue"}, Rows: [][]any{
			{"2026-03-01", 4, "1020.50"},
			{"2026-03-02", 1, "189.00"},
		}},
		Sheet{Name: "Top Products", Headers: []string{"Rank", "Product"}, Rows: [][]any{{1, "Navy Suit"}}},
	)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Sales Trend", "Top Products"}, f.GetSheetList())

	rows, err := f.GetRows("Sales Trend")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Date", "Orders", "Revenue"}, rows[0])
	assert.Equal(t, []string{"2026-03-01", "4", "1020.50"}, rows[1])

	name, err := f.GetCellValue("Top Products", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Navy Suit", name)
}

func TestWriteWorkbook_NoSheets(t *testing.T) {
	assert.Error(t, WriteWorkbook(&bytes.Buffer{}))
}

func TestReadFirstSheet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, Sheet{
		Name:    "Customers",
		Headers: []string{" Email ", "First_Name", "last_name"},
		Rows: [][]any{
			{"a@example.com", "Ann", "Lee"},
			{"", "", ""},
			{" b@example.com ", "Ben"},
		},
	}))

	records, err := ReadFirstSheet(&buf)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "a@example.com", records[0]["email"])
	assert.Equal(t, "Ann", records[0]["first_name"])
	assert.Equal(t, "Lee", records[0]["last_name"])
	assert.Equal(t, "b@example.com", records[1]["email"])
	assert.Empty(t, records[1]["last_name"])
}

func TestReadFirstSheet_NotAWorkbook(t *testing.T) {
	_, err := ReadFirstSheet(bytes.NewReader([]byte("not xlsx")))
	assert.Error(t, err)
}
