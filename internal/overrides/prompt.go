package overrides

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompt asks for a ledger for each narration, one line per answer. A blank
// answer skips the narration; end of input stops early without error. The
// returned map is keyed by Narration.Key.
func Prompt(in io.Reader, out io.Writer, narrations []Narration) (map[string]string, error) {
	chosen := make(map[string]string)
	if len(narrations) == 0 {
		_, err := fmt.Fprintln(out, "No repeated narrations found.")
		return chosen, err
	}

	scanner := bufio.NewScanner(in)
	for i, n := range narrations {
		if _, err := fmt.Fprintf(out, "[%d/%d] %s (%d times)\n  ledger: ", i+1, len(narrations), n.Sample, n.Count); err != nil {
			return nil, err
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("reading answer: %w", err)
			}
			break
		}
		if ledger := strings.TrimSpace(scanner.Text()); ledger != "" {
			chosen[n.Key] = ledger
		}
	}

	_, err := fmt.Fprintf(out, "\n%d of %d narrations assigned.\n", len(chosen), len(narrations))
	return chosen, err
}
