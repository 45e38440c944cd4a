// Package fileutils provides the file operations shared by the statement,
// ledger and export stages: format detection, directory creation and
// reading a spreadsheet or CSV file into a raw table of strings.
package fileutils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/bank-tally/internal/parsererror"

	"github.com/xuri/excelize/v2"
)

// Format is a supported tabular file type.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// SupportedFormats is shown in InvalidFormatError messages.
const SupportedFormats = ".xlsx or .csv"

// Table is a header-less grid of trimmed cell values, one slice per row.
type Table [][]string

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	if dirPath == "" || DirectoryExists(dirPath) {
		return nil
	}
	if err := os.MkdirAll(dirPath, 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// EnsureParentDirectory creates the directory that will hold filePath.
func EnsureParentDirectory(filePath string) error {
	return EnsureDirectoryExists(filepath.Dir(filePath))
}

// DetectFormat maps a file extension to a Format.
func DetectFormat(filePath string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	default:
		return "", &parsererror.InvalidFormatError{
			FilePath:       filePath,
			ExpectedFormat: SupportedFormats,
			Msg:            fmt.Sprintf("unsupported extension %q", filepath.Ext(filePath)),
		}
	}
}

// ReadTable reads the first sheet of a spreadsheet, or a delimited text file,
// into a Table. The delimiter only applies to CSV input.
func ReadTable(filePath string, delimiter rune) (Table, error) {
	format, err := DetectFormat(filePath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath) // #nosec G304 -- user-supplied input path
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", filePath, err)
	}
	defer func() { _ = file.Close() }()

	table, err := ReadTableFrom(file, format, delimiter)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", filePath, err)
	}
	return table, nil
}

// ReadTableFrom reads a Table from r in the given format.
func ReadTableFrom(r io.Reader, format Format, delimiter rune) (Table, error) {
	switch format {
	case FormatXLSX:
		return readXLSX(r)
	case FormatCSV:
		return readCSV(r, delimiter)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func readXLSX(r io.Reader) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook has no sheets")
	}

	// Stored values, not display text: typed dates come back as serials and
	// amounts without currency or grouping formats.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return trimTable(rows), nil
}

func readCSV(r io.Reader, delimiter rune) (Table, error) {
	if delimiter == 0 {
		delimiter = ','
	}
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return trimTable(rows), nil
}

func trimTable(rows [][]string) Table {
	out := make(Table, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = strings.TrimSpace(cell)
		}
		out[i] = cells
	}
	return out
}

// Cell returns row[idx], or "" when the row is shorter.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// IsBlankRow reports whether every cell is empty.
func IsBlankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
