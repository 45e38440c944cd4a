package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/bank-tally/internal/logging"
	"fjacquet/bank-tally/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRows() []models.AnnotatedTransaction {
	return []models.AnnotatedTransaction{
		{
			Transaction: models.Transaction{Row: 1, Date: "2024-01-05", Narration: "ATM WDL FEE", Debit: decimal.NewFromInt(50)},
			VoucherDate: "05-01-2024", Day: "05",
			MappedLedger: models.LedgerBankCharges, Source: models.SourceBankCharges,
			VoucherType: models.VoucherPayment,
			ByDr:        models.LedgerBankCharges, ToCr: "BANK",
			Amount:      decimal.NewFromInt(50),
		},
		{
			Transaction: models.Transaction{Row: 2, Date: "bad", Narration: "SALARY, JAN", Credit: decimal.RequireFromString("50000.5")},
			VoucherType: models.VoucherReceipt,
			ByDr:        "BANK", ToCr: models.LedgerSuspense,
			Amount:      decimal.RequireFromString("50000.5"),
		},
	}
}

func TestNewVoucherRow(t *testing.T) {
	r := NewVoucherRow(sampleRows()[0])
	assert.Equal(t, VoucherRow{
		Date:        "05-01-2024",
		ByDr:        "BANK CHARGES",
		ToCr:        "BANK",
		Amount:      "50.00",
		Narration:   "ATM WDL FEE",
		VoucherType: "PAYMENT",
		Day:         "05",
	}, r)
	assert.Empty(t, r.VoucherNo)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(logging.NewMockLogger()).WriteCSV(&buf, sampleRows()))

	want := "DATE,VOUCHER NO.,BY / DR,TO / CR,AMOUNT,NARRATION,VOUCHER TYPE,DAY\n" +
		"05-01-2024,,BANK CHARGES,BANK,50.00,ATM WDL FEE,PAYMENT,05\n" +
		",,BANK,SUSPENSE,50000.50,\"SALARY, JAN\",RECEIPT,\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_Delimiter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(logging.NewMockLogger(), WithDelimiter(';')).WriteCSV(&buf, sampleRows()[:1]))

	assert.Equal(t,
		"DATE;VOUCHER NO.;BY / DR;TO / CR;AMOUNT;NARRATION;VOUCHER TYPE;DAY\n"+
			"05-01-2024;;BANK CHARGES;BANK;50.00;ATM WDL FEE;PAYMENT;05\n",
		buf.String())
}

func TestWriteFile_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "vouchers.xlsx")
	mock := logging.NewMockLogger()
	require.NoError(t, New(mock).WriteFile(path, sampleRows()))
	assert.True(t, mock.HasEntry("INFO", "Voucher sheet written"))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{DefaultSheetName}, f.GetSheetList())

	rows, err := f.GetRows(DefaultSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Headers, rows[0])
	assert.Equal(t, "BANK CHARGES", rows[1][2])
	assert.Equal(t, "SALARY, JAN", rows[2][5])

	raw, err := f.GetCellValue(DefaultSheetName, "E2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "50", raw)
	raw, err = f.GetCellValue(DefaultSheetName, "E3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "50000.5", raw)
}

func TestWriteFile_CustomSheetAndCSV(t *testing.T) {
	dir := t.TempDir()

	xlsx := filepath.Join(dir, "a.xlsx")
	require.NoError(t, New(logging.NewMockLogger(), WithSheetName("Vouchers")).WriteFile(xlsx, sampleRows()))
	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Vouchers"}, f.GetSheetList())
	require.NoError(t, f.Close())

	csvPath := filepath.Join(dir, "a.csv")
	require.NoError(t, New(logging.NewMockLogger()).WriteFile(csvPath, sampleRows()))
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "BANK CHARGES")
}

func TestWriteFile_Errors(t *testing.T) {
	e := New(logging.NewMockLogger())
	assert.Error(t, e.WriteFile(filepath.Join(t.TempDir(), "a.csv"), nil))
	assert.Error(t, e.WriteFile(filepath.Join(t.TempDir(), "a.pdf"), sampleRows()))
}

func TestWriteXLSX_EmptyRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(logging.NewMockLogger()).WriteXLSX(&buf, []models.AnnotatedTransaction{}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	rows, err := f.GetRows(DefaultSheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
