// Package classifier assigns voucher sides and ledgers to bank statement rows.
//
// Each row is resolved independently by running a fixed sequence of
// strategies (narration overrides, small bank charges, fuzzy ledger
// matching) and is then given its double-entry labels and voucher date.
// Rows are annotated in parallel but the output keeps input order.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"fjacquet/bank-tally/internal/dateutils"
	"fjacquet/bank-tally/internal/logging"
	"fjacquet/bank-tally/internal/models"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoTransactions is returned when the batch has no rows.
	ErrNoTransactions = errors.New("no transactions to classify")
	// ErrInvalidThreshold is returned for a fuzzy threshold outside [0,100].
	ErrInvalidThreshold = errors.New("fuzzy threshold must be between 0 and 100")
)

// Request is one classification batch.
type Request struct {
	Rows []models.Transaction
	// Overrides maps narrations to user-chosen ledgers. Keys are normalized
	// by the classifier; only narrations repeated in Rows are honoured.
	Overrides map[string]string
	// Ledgers is the candidate list for fuzzy matching. Empty disables it.
	Ledgers   []string
	Threshold int
	// BankLabel fills the bank's side of the entry. Blank uses the
	// classifier's fallback label.
	BankLabel string
}

// RowContext is the shared, read-only context every row is annotated with.
type RowContext struct {
	Strategies []Strategy
	BankSide   string
}

// Classifier annotates statement rows with voucher fields.
type Classifier struct {
	logger            logging.Logger
	bankFallback      string
	workers           int
	chargesOnReceipts bool
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithBankFallback sets the label used for the bank side when a request has
// no bank label.
func WithBankFallback(label string) Option {
	return func(c *Classifier) { c.bankFallback = strings.TrimSpace(label) }
}

// WithWorkers bounds the number of rows annotated concurrently. Values below
// one use runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(c *Classifier) { c.workers = n }
}

// WithChargesOnReceipts controls whether the small bank charge rule also
// covers receipt rows. It does by default; pass false to limit the rule to
// payments.
func WithChargesOnReceipts(enabled bool) Option {
	return func(c *Classifier) { c.chargesOnReceipts = enabled }
}

// New creates a Classifier.
func New(logger logging.Logger, opts ...Option) *Classifier {
	if logger == nil {
		logger = logging.NewDefault()
	}
	c := &Classifier{
		logger:            logger,
		bankFallback:      models.DefaultBankFallback,
		chargesOnReceipts: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.workers < 1 {
		c.workers = runtime.NumCPU()
	}
	return c
}

// BankFallback returns the configured fallback bank label.
func (c *Classifier) BankFallback() string {
	return c.bankFallback
}

// Validate checks the batch-level preconditions.
func (r Request) Validate() error {
	if len(r.Rows) == 0 {
		return ErrNoTransactions
	}
	if r.Threshold < 0 || r.Threshold > 100 {
		return fmt.Errorf("%w: got %d", ErrInvalidThreshold, r.Threshold)
	}
	return nil
}

// Strategies builds the ordered resolution steps for a request.
func (c *Classifier) Strategies(req Request) []Strategy {
	strategies := []Strategy{
		NewOverrideStrategy(req.Rows, req.Overrides, c.logger),
		BankChargesStrategy{IncludeReceipts: c.chargesOnReceipts},
	}
	if len(req.Ledgers) > 0 {
		strategies = append(strategies, NewFuzzyStrategy(req.Ledgers, req.Threshold))
	} else {
		c.logger.Info("No ledger names supplied, fuzzy matching disabled")
	}
	return strategies
}

// Classify annotates every row of the request. Preconditions are checked
// once before any row is processed; per-row problems never fail the batch.
// The result has one entry per input row, in input order.
func (c *Classifier) Classify(ctx context.Context, req Request) ([]models.AnnotatedTransaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	rc := RowContext{
		Strategies: c.Strategies(req),
		BankSide:   c.bankSide(req.BankLabel),
	}

	c.logger.Info("Classifying transactions",
		logging.F(logging.FieldCount, len(req.Rows)),
		logging.F(logging.FieldThreshold, req.Threshold),
		logging.F(logging.FieldWorkers, c.workers))

	out := make([]models.AnnotatedTransaction, len(req.Rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i := range req.Rows {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = AnnotateRow(req.Rows[i], rc)
			c.logRow(out[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("classification aborted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("classification aborted: %w", err)
	}

	c.logger.Info("Classification complete",
		logging.F(logging.FieldCount, len(out)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))

	return out, nil
}

func (c *Classifier) bankSide(label string) string {
	if label = strings.TrimSpace(label); label != "" {
		return label
	}
	return c.bankFallback
}

func (c *Classifier) logRow(a models.AnnotatedTransaction) {
	c.logger.Debug("Row annotated",
		logging.F(logging.FieldRow, a.Row),
		logging.F(logging.FieldNarration, a.Narration),
		logging.F(logging.FieldStrategy, string(a.Source)),
		logging.F(logging.FieldLedger, a.MappedLedger),
		logging.F(logging.FieldScore, a.MatchScore),
		logging.F(logging.FieldVoucher, string(a.VoucherType)))
}

// AnnotateRow resolves one row's ledger and fills in its voucher fields.
// It is a pure function of the row and the shared context.
func AnnotateRow(tx models.Transaction, rc RowContext) models.AnnotatedTransaction {
	res := Resolution{Source: models.SourceNone}
	for _, s := range rc.Strategies {
		if r, ok := s.Resolve(tx, res); ok {
			res = r
		}
	}

	date, day := dateutils.ToVoucherDate(tx.Date)
	a := models.AnnotatedTransaction{
		Transaction:  tx,
		VoucherDate:  date,
		Day:          day,
		MappedLedger: res.Ledger,
		Source:       res.Source,
		MatchScore:   res.Score,
		VoucherType:  tx.Side(),
		Amount:       tx.VoucherAmount(),
	}

	ledgerSide := res.Ledger
	if ledgerSide == "" {
		ledgerSide = models.LedgerSuspense
	}

	switch a.VoucherType {
	case models.VoucherReceipt:
		a.ByDr, a.ToCr = rc.BankSide, ledgerSide
	default:
		a.ByDr, a.ToCr = ledgerSide, rc.BankSide
	}
	return a
}
