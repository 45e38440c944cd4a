// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"fjacquet/bank-tally/internal/classifier"
	"fjacquet/bank-tally/internal/container"
	"fjacquet/bank-tally/internal/logging"
	"fjacquet/bank-tally/internal/overrides"
	"fjacquet/bank-tally/internal/report"
)

// Options describes one conversion run. Empty fields fall back to the
// container's configuration.
type Options struct {
	Input         string
	Output        string
	LedgersFile   string
	OverridesFile string
	// Threshold is used when ThresholdSet is true; otherwise the configured
	// mapping.fuzzy_threshold applies.
	Threshold    int
	ThresholdSet bool
	BankLabel    string
	ReportFile   string
}

// DefaultOutputPath derives "<input>_tally.xlsx" next to the input file.
func DefaultOutputPath(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "_tally.xlsx"
}

func (o Options) resolve(c *container.Container) Options {
	cfg := c.GetConfig()
	if o.Output == "" {
		o.Output = DefaultOutputPath(o.Input)
	}
	if o.LedgersFile == "" {
		o.LedgersFile = cfg.Mapping.LedgersFile
	}
	if o.OverridesFile == "" {
		o.OverridesFile = cfg.Mapping.OverridesFile
	}
	if !o.ThresholdSet {
		o.Threshold = cfg.Mapping.FuzzyThreshold
	}
	if o.BankLabel == "" {
		o.BankLabel = cfg.Mapping.BankLabel
	}
	return o
}

// ProcessStatement runs the full pipeline: read the statement, load the
// ledger master and overrides, classify, write the voucher sheet and
// summarize the run.
func ProcessStatement(ctx context.Context, c *container.Container, opts Options) (*report.Summary, error) {
	if opts.Input == "" {
		return nil, fmt.Errorf("an input statement is required (--input)")
	}
	opts = opts.resolve(c)
	log := c.GetLogger()

	log.Info("Converting bank statement",
		logging.F(logging.FieldInputFile, opts.Input),
		logging.F(logging.FieldOutputFile, opts.Output))

	rows, err := c.GetStatementReader().ReadFile(opts.Input)
	if err != nil {
		return nil, err
	}

	ledgers, err := c.GetLedgerSource().Load(opts.LedgersFile)
	if err != nil {
		return nil, fmt.Errorf("loading ledger master: %w", err)
	}

	overrideMap, err := c.GetOverrideStore().Load(opts.OverridesFile)
	if err != nil {
		return nil, fmt.Errorf("loading overrides: %w", err)
	}

	annotated, err := c.GetClassifier().Classify(ctx, classifier.Request{
		Rows:      rows,
		Overrides: overrideMap,
		Ledgers:   ledgers,
		Threshold: opts.Threshold,
		BankLabel: opts.BankLabel,
	})
	if err != nil {
		return nil, err
	}

	if err := c.GetExporter().WriteFile(opts.Output, annotated); err != nil {
		return nil, err
	}

	gen := c.GetReportGenerator()
	summary := gen.Summarize(annotated, report.Meta{
		InputFile:  opts.Input,
		OutputFile: opts.Output,
		Threshold:  opts.Threshold,
	})
	if opts.ReportFile != "" {
		if err := gen.WriteFile(opts.ReportFile, summary); err != nil {
			return summary, err
		}
	}

	log.Info("Conversion completed successfully",
		logging.F(logging.FieldRunID, summary.RunID),
		logging.F(logging.FieldCount, summary.Total))
	return summary, nil
}

// RepeatedNarrations reads a statement and lists the narrations eligible for
// overrides.
func RepeatedNarrations(c *container.Container, input string) ([]overrides.Narration, error) {
	if input == "" {
		return nil, fmt.Errorf("an input statement is required (--input)")
	}
	rows, err := c.GetStatementReader().ReadFile(input)
	if err != nil {
		return nil, err
	}
	return overrides.Repeated(rows), nil
}
