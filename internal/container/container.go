// Package container provides dependency injection for the bank-tally
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/bank-tally/internal/classifier"
	"fjacquet/bank-tally/internal/config"
	"fjacquet/bank-tally/internal/export"
	"fjacquet/bank-tally/internal/ledger"
	"fjacquet/bank-tally/internal/logging"
	"fjacquet/bank-tally/internal/overrides"
	"fjacquet/bank-tally/internal/report"
	"fjacquet/bank-tally/internal/statement"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	statements *statement.Reader
	ledgers    *ledger.Source
	overrides  *overrides.Store
	classifier *classifier.Classifier
	exporter   *export.Exporter
	reports    *report.Generator
}

// NewContainer creates and wires all application dependencies, logging
// through a logrus adapter configured from cfg.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger wires dependencies around an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	delimiter := cfg.DelimiterRune()

	cls := classifier.New(logger,
		classifier.WithBankFallback(cfg.Mapping.BankFallback),
		classifier.WithWorkers(cfg.Mapping.Workers),
		classifier.WithChargesOnReceipts(cfg.Mapping.ChargesOnReceipts),
	)

	logger.Debug("Container initialized",
		logging.F(logging.FieldDelimiter, string(delimiter)),
		logging.F(logging.FieldThreshold, cfg.Mapping.FuzzyThreshold),
		logging.F("bank_fallback", cls.BankFallback()))

	return &Container{
		logger:     logger,
		config:     cfg,
		statements: statement.NewReader(logger, delimiter),
		ledgers:    ledger.NewSource(logger, delimiter),
		overrides:  overrides.NewStore(logger),
		classifier: cls,
		exporter: export.New(logger,
			export.WithDelimiter(delimiter),
			export.WithSheetName(cfg.Output.SheetName)),
		reports: report.NewGenerator(logger),
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger { return c.logger }

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config { return c.config }

// GetStatementReader returns the bank statement reader.
func (c *Container) GetStatementReader() *statement.Reader { return c.statements }

// GetLedgerSource returns the ledger master reader.
func (c *Container) GetLedgerSource() *ledger.Source { return c.ledgers }

// GetOverrideStore returns the narration override store.
func (c *Container) GetOverrideStore() *overrides.Store { return c.overrides }

// GetClassifier returns the ledger classifier.
func (c *Container) GetClassifier() *classifier.Classifier { return c.classifier }

// GetExporter returns the voucher sheet writer.
func (c *Container) GetExporter() *export.Exporter { return c.exporter }

// GetReportGenerator returns the run summary generator.
func (c *Container) GetReportGenerator() *report.Generator { return c.reports }

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
