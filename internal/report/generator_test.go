package report

import (
	"encoding/json"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/bank-tally/internal/logging"
	"fjacquet/bank-tally/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func annotated(vt models.VoucherType, src models.MappingSource, ledger, date string, amount int64) models.AnnotatedTransaction {
	return models.AnnotatedTransaction{
		VoucherDate:  date,
		MappedLedger: ledger,
		Source:       src,
		VoucherType:  vt,
		Amount:       decimal.NewFromInt(amount),
	}
}

func fixedGenerator() *Generator {
	g := NewGenerator(logging.NewMockLogger())
	g.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }
	g.newID = func() string { return "run-1" }
	return g
}

func sampleSummary(g *Generator) *Summary {
	rows := []models.AnnotatedTransaction{
		annotated(models.VoucherPayment, models.SourceBankCharges, models.LedgerBankCharges, "05-01-2024", 50),
		annotated(models.VoucherPayment, models.SourceOverride, "XYZ STORE LTD", "06-01-2024", 500),
		annotated(models.VoucherPayment, models.SourceOverride, "XYZ STORE LTD", "07-01-2024", 500),
		annotated(models.VoucherReceipt, models.SourceFuzzy, "SALARY", "10-02-2024", 50000),
		annotated(models.VoucherReceipt, models.SourceNone, "", "", 1000),
	}
	return g.Summarize(rows, Meta{InputFile: "stmt.xlsx", OutputFile: "out.xlsx", Threshold: 80})
}

func TestSummarize(t *testing.T) {
	s := sampleSummary(fixedGenerator())

	assert.Equal(t, "run-1", s.RunID)
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 3, s.Payments)
	assert.Equal(t, 2, s.Receipts)
	assert.Equal(t, 1, s.BankCharges)
	assert.Equal(t, 2, s.Overrides)
	assert.Equal(t, 1, s.Fuzzy)
	assert.Equal(t, 1, s.Suspense)
	assert.Equal(t, 1, s.Undated)
	assert.Equal(t, "1050.00", s.TotalPayments)
	assert.Equal(t, "51000.00", s.TotalReceipts)
}

func TestSummarize_DefaultRunIDIsUUID(t *testing.T) {
	s := NewGenerator(logging.NewMockLogger()).Summarize(nil, Meta{})
	_, err := uuid.Parse(s.RunID)
	assert.NoError(t, err)
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, "0.00", s.TotalPayments)
}

func TestRender(t *testing.T) {
	g := fixedGenerator()
	s := sampleSummary(g)

	text, err := g.Render(s, "text")
	require.NoError(t, err)
	assert.Contains(t, string(text), "Run run-1")
	assert.Contains(t, string(text), "suspense:       1")
	assert.Contains(t, string(text), "fuzzy matches:  1 (threshold 80)")

	jsonBytes, err := g.Render(s, "JSON")
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(jsonBytes, &decoded))
	assert.Equal(t, "run-1", decoded["run_id"])
	assert.Equal(t, float64(1), decoded["suspense"])

	xmlBytes, err := g.Render(s, "xml")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(xmlBytes), xml.Header))
	var back Summary
	require.NoError(t, xml.Unmarshal(xmlBytes, &back))
	assert.Equal(t, "run-1", back.RunID)
	assert.Equal(t, 2, back.Overrides)

	_, err = g.Render(s, "yaml")
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	g := fixedGenerator()
	s := sampleSummary(g)
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "reports", "run.json")
	require.NoError(t, g.WriteFile(jsonPath, s))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	txtPath := filepath.Join(dir, "run.txt")
	require.NoError(t, g.WriteFile(txtPath, s))
	data, err = os.ReadFile(txtPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "transactions:   5")
}
