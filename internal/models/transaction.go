// Package models defines the bank statement rows consumed by the classifier
// and the annotated voucher rows it produces.
package models

import (
	"github.com/shopspring/decimal"
)

// VoucherType is the accounting side of a transaction.
type VoucherType string

const (
	// VoucherPayment is money out of the bank account (debit side).
	VoucherPayment VoucherType = "PAYMENT"
	// VoucherReceipt is money into the bank account (credit side).
	VoucherReceipt VoucherType = "RECEIPT"
)

// MappingSource records which resolution step assigned the ledger.
type MappingSource string

const (
	SourceNone        MappingSource = "none"
	SourceOverride    MappingSource = "override"
	SourceBankCharges MappingSource = "bank_charges"
	SourceFuzzy       MappingSource = "fuzzy"
)

// Well-known ledger labels.
const (
	LedgerBankCharges   = "BANK CHARGES"
	LedgerSuspense      = "SUSPENSE"
	DefaultBankFallback = "BANK"
)

// SmallChargeThreshold is the debit amount at or below which a row is
// treated as a bank service charge.
var SmallChargeThreshold = decimal.NewFromInt(58)

// Transaction is one normalized bank statement line.
type Transaction struct {
	// Row is the 1-based data row position in the source statement.
	Row       int
	Date      string
	Narration string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// IsSmallCharge reports whether the debit is at or below SmallChargeThreshold.
// Rows with no debit at all (zero) qualify too.
func (t Transaction) IsSmallCharge() bool {
	return t.Debit.LessThanOrEqual(SmallChargeThreshold)
}

// Side derives the payment/receipt side from the debit and credit
// amounts. Malformed rows (both zero or both positive) are tie-broken in
// favour of PAYMENT when debit >= credit.
func (t Transaction) Side() VoucherType {
	switch {
	case t.Debit.IsPositive() && t.Credit.IsZero():
		return VoucherPayment
	case t.Credit.IsPositive() && t.Debit.IsZero():
		return VoucherReceipt
	case t.Debit.GreaterThanOrEqual(t.Credit):
		return VoucherPayment
	default:
		return VoucherReceipt
	}
}

// VoucherAmount returns the debit when positive, otherwise the credit.
func (t Transaction) VoucherAmount() decimal.Decimal {
	if t.Debit.IsPositive() {
		return t.Debit
	}
	return t.Credit
}

// AnnotatedTransaction is a Transaction with voucher fields attached.
type AnnotatedTransaction struct {
	Transaction

	// VoucherDate is the source date re-formatted as DD-MM-YYYY, empty when
	// the source date could not be parsed.
	VoucherDate string
	Day         string

	// MappedLedger is empty when no resolution step matched.
	MappedLedger string
	Source       MappingSource
	MatchScore   float64

	VoucherType VoucherType
	ByDr        string
	ToCr        string
	Amount      decimal.Decimal
}

// IsSuspense reports whether the row was left unresolved.
func (a AnnotatedTransaction) IsSuspense() bool {
	return a.MappedLedger == ""
}
