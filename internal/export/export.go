// Package export writes annotated transactions as a voucher import sheet,
// either as an Excel workbook or a delimited text file.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"fjacquet/bank-tally/internal/fileutils"
	"fjacquet/bank-tally/internal/logging"
	"fjacquet/bank-tally/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

// DefaultSheetName is the worksheet name expected by the import template.
const DefaultSheetName = "Tally_Import"

// Headers is the fixed output column order.
var Headers = []string{"DATE", "VOUCHER NO.", "BY / DR", "TO / CR", "AMOUNT", "NARRATION", "VOUCHER TYPE", "DAY"}

// VoucherRow is one output line. Field order and tags follow Headers.
type VoucherRow struct {
	Date        string `csv:"DATE"`
	VoucherNo   string `csv:"VOUCHER NO."`
	ByDr        string `csv:"BY / DR"`
	ToCr        string `csv:"TO / CR"`
	Amount      string `csv:"AMOUNT"`
	Narration   string `csv:"NARRATION"`
	VoucherType string `csv:"VOUCHER TYPE"`
	Day         string `csv:"DAY"`
}

// NewVoucherRow projects an annotated transaction onto the output columns.
// Voucher numbers are left for the bookkeeping software to assign.
func NewVoucherRow(a models.AnnotatedTransaction) VoucherRow {
	return VoucherRow{
		Date:        a.VoucherDate,
		ByDr:        a.ByDr,
		ToCr:        a.ToCr,
		Amount:      models.FormatAmount(a.Amount),
		Narration:   a.Narration,
		VoucherType: string(a.VoucherType),
		Day:         a.Day,
	}
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithDelimiter sets the CSV field separator.
func WithDelimiter(d rune) Option {
	return func(e *Exporter) {
		if d != 0 {
			e.delimiter = d
		}
	}
}

// WithSheetName sets the worksheet name for Excel output.
func WithSheetName(name string) Option {
	return func(e *Exporter) {
		if name != "" {
			e.sheetName = name
		}
	}
}

// Exporter writes voucher sheets.
type Exporter struct {
	logger    logging.Logger
	delimiter rune
	sheetName string
}

// New creates an Exporter writing comma-separated CSV and a Tally_Import sheet
// unless configured otherwise.
func New(logger logging.Logger, opts ...Option) *Exporter {
	if logger == nil {
		logger = logging.NewDefault()
	}
	e := &Exporter{logger: logger, delimiter: ',', sheetName: DefaultSheetName}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WriteFile writes rows to path, choosing the format from its extension.
func (e *Exporter) WriteFile(path string, rows []models.AnnotatedTransaction) error {
	if rows == nil {
		return fmt.Errorf("cannot write nil transactions")
	}
	format, err := fileutils.DetectFormat(path)
	if err != nil {
		return err
	}
	if err := fileutils.EnsureParentDirectory(path); err != nil {
		return err
	}

	file, err := os.Create(path) // #nosec G304 -- user-supplied output path
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			e.logger.WithError(cerr).Warn("Failed to close file")
		}
	}()

	switch format {
	case fileutils.FormatXLSX:
		err = e.WriteXLSX(file, rows)
	default:
		err = e.WriteCSV(file, rows)
	}
	if err != nil {
		return err
	}

	e.logger.Info("Voucher sheet written",
		logging.F(logging.FieldOutputFile, path),
		logging.F(logging.FieldCount, len(rows)))
	return nil
}

// WriteCSV writes rows as delimited text with a header line.
func (e *Exporter) WriteCSV(w io.Writer, rows []models.AnnotatedTransaction) error {
	out := make([]VoucherRow, len(rows))
	for i, a := range rows {
		out[i] = NewVoucherRow(a)
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = e.delimiter
	if err := gocsv.MarshalCSV(out, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	e.logger.Debug("CSV voucher rows marshaled",
		logging.F(logging.FieldCount, len(out)),
		logging.F(logging.FieldDelimiter, string(e.delimiter)))
	return nil
}

// WriteXLSX writes rows to a single-sheet workbook with a bold header and
// numeric amounts.
func (e *Exporter) WriteXLSX(w io.Writer, rows []models.AnnotatedTransaction) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := e.sheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	amountFormat := "0.00"
	amountStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &amountFormat})
	if err != nil {
		return fmt.Errorf("creating amount style: %w", err)
	}

	header := make([]interface{}, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(Headers))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, a := range rows {
		r := NewVoucherRow(a)
		values := []interface{}{
			r.Date, r.VoucherNo, r.ByDr, r.ToCr, a.Amount.InexactFloat64(),
			r.Narration, r.VoucherType, r.Day,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if len(rows) > 0 {
		if err := f.SetCellStyle(sheet, "E2", fmt.Sprintf("E%d", len(rows)+1), amountStyle); err != nil {
			return fmt.Errorf("styling amounts: %w", err)
		}
	}
	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "C", "D", 28)
	_ = f.SetColWidth(sheet, "F", "F", 48)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
