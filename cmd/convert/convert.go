// Package convert handles the statement-to-voucher conversion command
package convert

import (
	"fmt"

	"fjacquet/bank-tally/cmd/common"
	"fjacquet/bank-tally/cmd/root"

	"github.com/spf13/cobra"
)

var opts common.Options

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a bank statement into a voucher import sheet",
	Long: `Convert a bank statement into a voucher import sheet.

Each row becomes a PAYMENT or RECEIPT voucher. Ledgers are assigned from
narration overrides (repeated narrations only), then small debits of 58 or
less go to BANK CHARGES, then unresolved rows are fuzzy matched against the
ledger master. Rows nothing matched are booked to SUSPENSE.`,
	Example: `  bank-tally convert -i statement.xlsx -o vouchers.xlsx --ledgers ledgers.xlsx
  bank-tally convert -i statement.csv --overrides overrides.yaml --bank "HDFC BANK" --threshold 85`,
	RunE: convertFunc,
}

func init() {
	Cmd.Flags().StringVar(&opts.LedgersFile, "ledgers", "", "Ledger master file (.xlsx or .csv, first column)")
	Cmd.Flags().StringVar(&opts.OverridesFile, "overrides", "", "Narration override file (.yaml)")
	Cmd.Flags().IntVar(&opts.Threshold, "threshold", 80, "Minimum fuzzy match score (0-100)")
	Cmd.Flags().StringVar(&opts.BankLabel, "bank", "", "Bank ledger name for the bank side of each voucher")
	Cmd.Flags().StringVar(&opts.ReportFile, "report", "", "Write a run summary (.json, .xml or text)")
}

func convertFunc(cmd *cobra.Command, args []string) error {
	run := opts
	run.Input = root.SharedFlags.Input
	run.Output = root.SharedFlags.Output
	run.ThresholdSet = cmd.Flags().Changed("threshold")

	summary, err := common.ProcessStatement(cmd.Context(), root.AppContainer, run)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), summary.Text())
	return err
}
