// Package statement reads a normalized bank statement (DATE, NARRATION,
// DEBIT, CREDIT) from a spreadsheet or CSV export into transactions.
package statement

import (
	"fmt"
	"strconv"
	"strings"

	"fjacquet/bank-tally/internal/dateutils"
	"fjacquet/bank-tally/internal/fileutils"
	"fjacquet/bank-tally/internal/logging"
	"fjacquet/bank-tally/internal/models"
	"fjacquet/bank-tally/internal/parsererror"

	"github.com/xuri/excelize/v2"
)

// Column names, matched case-insensitively.
const (
	ColumnDate      = "DATE"
	ColumnNarration = "NARRATION"
	ColumnDebit     = "DEBIT"
	ColumnCredit    = "CREDIT"
)

// RequiredColumns lists the statement columns in reporting order.
var RequiredColumns = []string{ColumnDate, ColumnNarration, ColumnDebit, ColumnCredit}

// columnAliases maps alternative header spellings to the canonical name.
var columnAliases = map[string]string{
	"NARRITION": ColumnNarration,
}

// Spreadsheet serial numbers inside this range are treated as dates
// (1900-03-01 through 9999-12-31).
const (
	minDateSerial = 61
	maxDateSerial = 2958465
)

// Columns holds the zero-based index of each required column.
type Columns struct {
	Date      int
	Narration int
	Debit     int
	Credit    int
}

// Reader converts statement files into transactions.
type Reader struct {
	logger    logging.Logger
	delimiter rune
}

// NewReader creates a Reader. The delimiter applies to CSV input only.
func NewReader(logger logging.Logger, delimiter rune) *Reader {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Reader{logger: logger, delimiter: delimiter}
}

// ReadFile loads and converts the statement at path.
func (r *Reader) ReadFile(path string) ([]models.Transaction, error) {
	r.logger.Info("Reading bank statement", logging.F(logging.FieldInputFile, path))

	table, err := fileutils.ReadTable(path, r.delimiter)
	if err != nil {
		return nil, err
	}

	txs, err := r.FromTable(table, path)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Bank statement loaded",
		logging.F(logging.FieldInputFile, path),
		logging.F(logging.FieldCount, len(txs)))
	return txs, nil
}

// FromTable converts a raw table whose first row is the header. Fully blank
// rows are skipped; Row numbers count data rows from 1, blank ones included.
func (r *Reader) FromTable(table fileutils.Table, source string) ([]models.Transaction, error) {
	var header []string
	if len(table) > 0 {
		header = table[0]
	}

	cols, err := LocateColumns(header, source)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("Statement columns located",
		logging.F(logging.FieldColumns, header),
		logging.F(logging.FieldFile, source))

	txs := make([]models.Transaction, 0, len(table))
	for i, row := range table[1:] {
		if fileutils.IsBlankRow(row) {
			continue
		}
		txs = append(txs, models.Transaction{
			Row:       i + 1,
			Date:      normalizeDateCell(fileutils.Cell(row, cols.Date)),
			Narration: fileutils.Cell(row, cols.Narration),
			Debit:     models.ParseAmount(fileutils.Cell(row, cols.Debit)),
			Credit:    models.ParseAmount(fileutils.Cell(row, cols.Credit)),
		})
	}
	return txs, nil
}

// LocateColumns finds the required columns in a header row. Every missing
// column is reported in a single MissingColumnsError.
func LocateColumns(header []string, source string) (Columns, error) {
	index := make(map[string]int, len(header))
	found := make([]string, 0, len(header))
	for i, cell := range header {
		name := canonicalColumn(cell)
		if name == "" {
			continue
		}
		found = append(found, strings.TrimSpace(cell))
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return Columns{}, &parsererror.MissingColumnsError{
			FilePath: source,
			Missing:  missing,
			Found:    found,
		}
	}

	return Columns{
		Date:      index[ColumnDate],
		Narration: index[ColumnNarration],
		Debit:     index[ColumnDebit],
		Credit:    index[ColumnCredit],
	}, nil
}

func canonicalColumn(cell string) string {
	name := strings.ToUpper(strings.TrimSpace(cell))
	if alias, ok := columnAliases[name]; ok {
		return alias
	}
	return name
}

// normalizeDateCell turns a bare spreadsheet serial into an ISO date and
// leaves every other value untouched for the classifier to parse.
func normalizeDateCell(cell string) string {
	serial, err := strconv.ParseFloat(cell, 64)
	if err != nil || serial < minDateSerial || serial > maxDateSerial {
		return cell
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return cell
	}
	return t.Format(dateutils.DateLayoutISO)
}

// String renders the column layout for diagnostics.
func (c Columns) String() string {
	return fmt.Sprintf("date=%d narration=%d debit=%d credit=%d", c.Date, c.Narration, c.Debit, c.Credit)
}
