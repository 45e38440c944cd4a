package overrides

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/bank-tally/internal/fileutils"
	"fjacquet/bank-tally/internal/logging"
	"fjacquet/bank-tally/internal/models"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is used when no override file is named explicitly.
const DefaultFileName = "overrides.yaml"

// document is the on-disk layout: a top-level "overrides" mapping from
// narration to ledger.
type document struct {
	Overrides map[string]string `yaml:"overrides"`
}

// Store loads and saves override files.
type Store struct {
	logger logging.Logger
}

// NewStore creates a Store.
func NewStore(logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Store{logger: logger}
}

// FindFile looks for filename as given, then under ./config and
// $HOME/.bank-tally.
func (s *Store) FindFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if fileutils.FileExists(filename) {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{filename, filepath.Join("config", filename)}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".bank-tally", filename))
	}
	for _, location := range locations {
		if fileutils.FileExists(location) {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// Load reads an override file. A missing file yields an empty map. Keys are
// normalized and entries with a blank ledger are dropped. Both the wrapped
// layout and a bare top-level mapping are accepted.
func (s *Store) Load(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}

	resolved, err := s.FindFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("Override file not found", logging.F(logging.FieldFile, path))
		return map[string]string{}, nil
	}

	data, err := os.ReadFile(resolved) // #nosec G304 -- user-supplied override path
	if err != nil {
		return nil, fmt.Errorf("error reading override file: %w", err)
	}

	raw, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing override file %s: %w", resolved, err)
	}

	out := make(map[string]string, len(raw))
	for narration, ledger := range raw {
		key := models.NormalizeNarration(narration)
		ledger = strings.TrimSpace(ledger)
		if key == "" || ledger == "" {
			continue
		}
		out[key] = ledger
	}

	s.logger.Debug("Loaded narration overrides",
		logging.F(logging.FieldFile, resolved),
		logging.F(logging.FieldCount, len(out)))
	return out, nil
}

func decode(data []byte) (map[string]string, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err == nil && doc.Overrides != nil {
		return doc.Overrides, nil
	}

	var bare map[string]string
	if err := yaml.Unmarshal(data, &bare); err != nil {
		return nil, err
	}
	if bare == nil {
		bare = map[string]string{}
	}
	return bare, nil
}

// ResolvePath returns the existing file FindFile locates for path, or path
// itself when there is none yet.
func (s *Store) ResolvePath(path string) string {
	if path == "" {
		path = DefaultFileName
	}
	if resolved, err := s.FindFile(path); err == nil {
		return resolved
	}
	return path
}

// Save writes an override file listing every narration in order, filled from
// known where a ledger is already chosen and left blank otherwise. Each entry
// carries its occurrence count as a comment. Entries of known that match none
// of the narrations follow in key order, so answers for other statements
// survive.
func (s *Store) Save(path string, narrations []Narration, known map[string]string) error {
	if path == "" {
		path = DefaultFileName
	}

	body := &yaml.Node{Kind: yaml.MappingNode}
	listed := make(map[string]struct{}, len(narrations))
	for _, n := range narrations {
		listed[n.Key] = struct{}{}
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: n.Key}
		value := &yaml.Node{
			Kind:        yaml.ScalarNode,
			Tag:         "!!str",
			Value:       known[n.Key],
			LineComment: fmt.Sprintf("%d occurrences", n.Count),
		}
		body.Content = append(body.Content, key, value)
	}

	extra := make([]string, 0, len(known))
	for k := range known {
		if _, ok := listed[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		body.Content = append(body.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: known[k]})
	}

	root := &yaml.Node{
		Kind: yaml.DocumentNode,
		Content: []*yaml.Node{{
			Kind: yaml.MappingNode,
			Content: []*yaml.Node{
				{Kind: yaml.ScalarNode, Value: "overrides"},
				body,
			},
		}},
	}

	data, err := yaml.Marshal(root)
	if err != nil {
		return fmt.Errorf("error marshaling overrides: %w", err)
	}

	if err := fileutils.EnsureParentDirectory(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("error writing override file: %w", err)
	}

	s.logger.Info("Saved narration overrides",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(body.Content)/2))
	return nil
}
