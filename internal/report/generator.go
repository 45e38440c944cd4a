// Package report summarizes a classification run: how many rows became
// payments or receipts, which step resolved them and how many were left in
// suspense.
package report

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"time"

	"fjacquet/bank-tally/internal/fileutils"
	"fjacquet/bank-tally/internal/logging"
	"fjacquet/bank-tally/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Supported report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatXML  = "xml"
)

// Summary is the outcome of one run.
type Summary struct {
	XMLName     xml.Name  `json:"-" xml:"summary"`
	RunID       string    `json:"run_id" xml:"run_id,attr"`
	GeneratedAt time.Time `json:"generated_at" xml:"generated_at"`
	InputFile   string    `json:"input_file,omitempty" xml:"input_file,omitempty"`
	OutputFile  string    `json:"output_file,omitempty" xml:"output_file,omitempty"`
	Threshold   int       `json:"threshold" xml:"threshold"`

	Total       int `json:"total" xml:"total"`
	Payments    int `json:"payments" xml:"payments"`
	Receipts    int `json:"receipts" xml:"receipts"`
	Suspense    int `json:"suspense" xml:"suspense"`
	BankCharges int `json:"bank_charges" xml:"bank_charges"`
	Overrides   int `json:"overrides" xml:"overrides"`
	Fuzzy       int `json:"fuzzy" xml:"fuzzy"`
	Undated     int `json:"undated" xml:"undated"`

	TotalPayments string `json:"total_payments" xml:"total_payments"`
	TotalReceipts string `json:"total_receipts" xml:"total_receipts"`
}

// Meta carries run details that are not derivable from the rows.
type Meta struct {
	InputFile  string
	OutputFile string
	Threshold  int
}

// Generator builds and renders run summaries.
type Generator struct {
	logger logging.Logger
	now    func() time.Time
	newID  func() string
}

// NewGenerator creates a Generator.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Generator{
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// Summarize tallies annotated rows.
func (g *Generator) Summarize(rows []models.AnnotatedTransaction, meta Meta) *Summary {
	s := &Summary{
		RunID:       g.newID(),
		GeneratedAt: g.now().UTC(),
		InputFile:   meta.InputFile,
		OutputFile:  meta.OutputFile,
		Threshold:   meta.Threshold,
		Total:       len(rows),
	}

	paid, received := decimal.Zero, decimal.Zero
	for _, a := range rows {
		switch a.VoucherType {
		case models.VoucherPayment:
			s.Payments++
			paid = paid.Add(a.Amount)
		case models.VoucherReceipt:
			s.Receipts++
			received = received.Add(a.Amount)
		}
		switch a.Source {
		case models.SourceBankCharges:
			s.BankCharges++
		case models.SourceOverride:
			s.Overrides++
		case models.SourceFuzzy:
			s.Fuzzy++
		}
		if a.IsSuspense() {
			s.Suspense++
		}
		if a.VoucherDate == "" {
			s.Undated++
		}
	}
	s.TotalPayments = models.FormatAmount(paid)
	s.TotalReceipts = models.FormatAmount(received)

	g.logger.Info("Run summary",
		logging.F(logging.FieldRunID, s.RunID),
		logging.F(logging.FieldCount, s.Total),
		logging.F("suspense", s.Suspense),
		logging.F("bank_charges", s.BankCharges))
	return s
}

// Render formats a summary as text, json or xml.
func (g *Generator) Render(s *Summary, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return []byte(s.Text()), nil
	case FormatJSON:
		out, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
		}
		return out, nil
	case FormatXML:
		out, err := xml.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal XML report: %w", err)
		}
		return []byte(xml.Header + string(out)), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// WriteFile renders s in the format implied by path's extension (.json,
// .xml, anything else text) and writes it.
func (g *Generator) WriteFile(path string, s *Summary) error {
	format := FormatText
	switch {
	case strings.HasSuffix(strings.ToLower(path), ".json"):
		format = FormatJSON
	case strings.HasSuffix(strings.ToLower(path), ".xml"):
		format = FormatXML
	}

	data, err := g.Render(s, format)
	if err != nil {
		return err
	}
	if err := fileutils.EnsureParentDirectory(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}
	g.logger.Info("Run report written", logging.F(logging.FieldFile, path))
	return nil
}

// Text renders the summary for a terminal.
func (s *Summary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s\n", s.RunID)
	fmt.Fprintf(&b, "  transactions:   %d\n", s.Total)
	fmt.Fprintf(&b, "  payments:       %d (%s)\n", s.Payments, s.TotalPayments)
	fmt.Fprintf(&b, "  receipts:       %d (%s)\n", s.Receipts, s.TotalReceipts)
	fmt.Fprintf(&b, "  bank charges:   %d\n", s.BankCharges)
	fmt.Fprintf(&b, "  overrides:      %d\n", s.Overrides)
	fmt.Fprintf(&b, "  fuzzy matches:  %d (threshold %d)\n", s.Fuzzy, s.Threshold)
	fmt.Fprintf(&b, "  suspense:       %d\n", s.Suspense)
	if s.Undated > 0 {
		fmt.Fprintf(&b, "  undated rows:   %d\n", s.Undated)
	}
	return b.String()
}
