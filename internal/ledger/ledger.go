// Package ledger loads the ledger master: the list of ledger names the
// classifier may assign by fuzzy matching.
package ledger

import (
	"fjacquet/bank-tally/internal/fileutils"
	"fjacquet/bank-tally/internal/logging"
)

// Source reads ledger names from a spreadsheet or CSV file.
type Source struct {
	logger    logging.Logger
	delimiter rune
}

// NewSource creates a Source. The delimiter applies to CSV input only.
func NewSource(logger logging.Logger, delimiter rune) *Source {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Source{logger: logger, delimiter: delimiter}
}

// Load returns the ledger names in path. An empty or nonexistent path yields
// an empty list, which disables fuzzy matching downstream.
func (s *Source) Load(path string) ([]string, error) {
	if path == "" {
		s.logger.Info("No ledger master supplied")
		return []string{}, nil
	}
	if !fileutils.FileExists(path) {
		s.logger.Warn("Ledger master not found, continuing without it",
			logging.F(logging.FieldFile, path))
		return []string{}, nil
	}

	table, err := fileutils.ReadTable(path, s.delimiter)
	if err != nil {
		return nil, err
	}

	names := Names(table)
	s.logger.Info("Ledger master loaded",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(names)))
	return names, nil
}

// Names extracts the first column below the header row, dropping empty
// cells and keeping file order. Duplicates are kept.
func Names(table fileutils.Table) []string {
	names := []string{}
	if len(table) < 2 {
		return names
	}
	for _, row := range table[1:] {
		if name := fileutils.Cell(row, 0); name != "" {
			names = append(names, name)
		}
	}
	return names
}
