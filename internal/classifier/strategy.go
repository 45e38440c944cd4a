package classifier

import (
	"strings"

	"fjacquet/bank-tally/internal/fuzzy"
	"fjacquet/bank-tally/internal/logging"
	"fjacquet/bank-tally/internal/models"
)

// Resolution is the ledger assigned to a row so far.
type Resolution struct {
	Ledger string
	Source models.MappingSource
	Score  float64
}

// Resolved reports whether a ledger has been assigned.
func (r Resolution) Resolved() bool {
	return r.Ledger != ""
}

// Strategy is one step of ledger resolution. Strategies run in order and a
// strategy that reports ok replaces whatever the previous steps assigned.
type Strategy interface {
	// Resolve inspects the row and the resolution so far. It returns the new
	// resolution and true when it assigns a ledger.
	Resolve(tx models.Transaction, current Resolution) (Resolution, bool)

	// Name identifies the strategy in logs and in the row's mapping source.
	Name() models.MappingSource
}

// OverrideStrategy applies user-supplied ledgers for narrations that recur
// in the batch.
type OverrideStrategy struct {
	overrides map[string]string
}

// NewOverrideStrategy keeps only the override entries whose normalized
// narration appears more than once in rows. Entries for singleton or absent
// narrations, and entries with a blank ledger, are dropped and logged.
func NewOverrideStrategy(rows []models.Transaction, overrides map[string]string, logger logging.Logger) *OverrideStrategy {
	counts := make(map[string]int, len(rows))
	for _, tx := range rows {
		counts[models.NormalizeNarration(tx.Narration)]++
	}

	kept := make(map[string]string, len(overrides))
	for narration, ledger := range overrides {
		key := models.NormalizeNarration(narration)
		ledger = strings.TrimSpace(ledger)
		if ledger == "" {
			continue
		}
		if counts[key] <= 1 {
			logger.Debug("Ignoring override for non-repeated narration",
				logging.F(logging.FieldNarration, key),
				logging.F(logging.FieldCount, counts[key]))
			continue
		}
		kept[key] = ledger
	}

	return &OverrideStrategy{overrides: kept}
}

// Name returns the mapping source for override hits.
func (s *OverrideStrategy) Name() models.MappingSource { return models.SourceOverride }

// Len returns the number of active override entries.
func (s *OverrideStrategy) Len() int { return len(s.overrides) }

// Resolve looks up the row's normalized narration.
func (s *OverrideStrategy) Resolve(tx models.Transaction, _ Resolution) (Resolution, bool) {
	ledger, ok := s.overrides[models.NormalizeNarration(tx.Narration)]
	if !ok {
		return Resolution{}, false
	}
	return Resolution{Ledger: ledger, Source: s.Name(), Score: 100}, true
}

// BankChargesStrategy maps small debits to the bank charges ledger,
// overriding any earlier assignment.
type BankChargesStrategy struct {
	// IncludeReceipts also applies the rule to receipt rows, whose debit is
	// normally zero and therefore always below the threshold. The classifier
	// sets it unless configured otherwise.
	IncludeReceipts bool
}

// Name returns the mapping source for bank charge hits.
func (BankChargesStrategy) Name() models.MappingSource { return models.SourceBankCharges }

// Resolve assigns BANK CHARGES to rows with
// debit <= models.SmallChargeThreshold, skipping receipts unless
// IncludeReceipts is set.
func (s BankChargesStrategy) Resolve(tx models.Transaction, _ Resolution) (Resolution, bool) {
	if !tx.IsSmallCharge() {
		return Resolution{}, false
	}
	if tx.Side() == models.VoucherReceipt && !s.IncludeReceipts {
		return Resolution{}, false
	}
	return Resolution{Ledger: models.LedgerBankCharges, Source: s.Name(), Score: 100}, true
}

// FuzzyStrategy matches still-unresolved narrations against the ledger list.
type FuzzyStrategy struct {
	ledgers   []string
	threshold float64
}

// NewFuzzyStrategy builds a matcher over ledgers accepting scores at or
// above threshold.
func NewFuzzyStrategy(ledgers []string, threshold int) *FuzzyStrategy {
	return &FuzzyStrategy{ledgers: ledgers, threshold: float64(threshold)}
}

// Name returns the mapping source for fuzzy hits.
func (s *FuzzyStrategy) Name() models.MappingSource { return models.SourceFuzzy }

// Resolve runs only when nothing earlier assigned a ledger.
func (s *FuzzyStrategy) Resolve(tx models.Transaction, current Resolution) (Resolution, bool) {
	if current.Resolved() {
		return Resolution{}, false
	}
	best, ok := fuzzy.ExtractOne(tx.Narration, s.ledgers)
	if !ok || best.Score < s.threshold {
		return Resolution{}, false
	}
	return Resolution{Ledger: best.Choice, Source: s.Name(), Score: best.Score}, true
}
