package fileutils_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/bank-tally/internal/fileutils"
	"fjacquet/bank-tally/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.txt")))
	assert.False(t, fileutils.FileExists(tmpDir))
}

func TestDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()

	assert.True(t, fileutils.DirectoryExists(tmpDir))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "nonexistent")))
}

func TestEnsureParentDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "out", "nested", "vouchers.xlsx")

	require.NoError(t, fileutils.EnsureParentDirectory(target))
	assert.True(t, fileutils.DirectoryExists(filepath.Dir(target)))

	// Existing directory is a no-op.
	require.NoError(t, fileutils.EnsureParentDirectory(target))
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want fileutils.Format
	}{
		{"stmt.xlsx", fileutils.FormatXLSX},
		{"STMT.XLSX", fileutils.FormatXLSX},
		{"stmt.xlsm", fileutils.FormatXLSX},
		{"stmt.csv", fileutils.FormatCSV},
		{"dir/ledgers.txt", fileutils.FormatCSV},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := fileutils.DetectFormat(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := fileutils.DetectFormat("stmt.pdf")
	var formatErr *parsererror.InvalidFormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, "stmt.pdf", formatErr.FilePath)
}

func TestReadTable_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stmt.csv")
	content := "\ufeffDate; Narration ;Debit;Credit\n2024-01-05;ATM WDL FEE;50;\n;;;\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	table, err := fileutils.ReadTable(path, ';')
	require.NoError(t, err)
	require.Len(t, table, 3)
	assert.Equal(t, []string{"Date", "Narration", "Debit", "Credit"}, table[0])
	assert.Equal(t, []string{"2024-01-05", "ATM WDL FEE", "50", ""}, table[1])
	assert.True(t, fileutils.IsBlankRow(table[2]))
}

func TestReadTableFrom_RaggedCSV(t *testing.T) {
	table, err := fileutils.ReadTableFrom(strings.NewReader("A,B,C\n1\n2,3\n"), fileutils.FormatCSV, 0)
	require.NoError(t, err)
	require.Len(t, table, 3)
	assert.Equal(t, "", fileutils.Cell(table[1], 2))
	assert.Equal(t, "3", fileutils.Cell(table[2], 1))
	assert.Equal(t, "", fileutils.Cell(table[2], -1))
}

func TestReadTable_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledgers.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Ledger Name"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{" SALARY "}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"RENT", 42}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := fileutils.ReadTable(path, ',')
	require.NoError(t, err)
	require.Len(t, table, 3)
	assert.Equal(t, "Ledger Name", table[0][0])
	assert.Equal(t, "SALARY", table[1][0])
	assert.Equal(t, []string{"RENT", "42"}, table[2])
}

func TestReadTable_XLSXStoredValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", 1234.5))
	style, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "B1", "B1", style))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := fileutils.ReadTable(path, ',')
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Equal(t, []string{"45296", "1234.5"}, table[0])
}

func TestReadTable_Errors(t *testing.T) {
	_, err := fileutils.ReadTable(filepath.Join(t.TempDir(), "missing.csv"), ',')
	assert.Error(t, err)

	_, err = fileutils.ReadTable("statement.pdf", ',')
	var formatErr *parsererror.InvalidFormatError
	assert.True(t, errors.As(err, &formatErr))

	bad := filepath.Join(t.TempDir(), "bad.xlsx")
	require.NoError(t, os.WriteFile(bad, []byte("not a zip"), 0600))
	_, err = fileutils.ReadTable(bad, ',')
	assert.Error(t, err)
}
