// Package fuzzy scores narrations against ledger names with a token-set
// similarity that tolerates word order and partial token subsets.
package fuzzy

import (
	"sort"
	"strings"
	"unicode"

	"github.com/xrash/smetrics"
)

// Match is the best-scoring choice returned by ExtractOne.
type Match struct {
	Choice string
	Score  float64
	Index  int
}

// Process upper-cases s and turns every rune that is not a letter, digit or
// combining mark into a separator, so "UPI/XYZ STORE/1234" tokenizes as
// UPI XYZ STORE 1234. Marks stay so Indic vowel signs do not split words.
func Process(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) {
			return unicode.ToUpper(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

// indel returns the insertion/deletion edit distance between a and b.
// A substitution costs the same as one deletion plus one insertion.
func indel(a, b string) int {
	return smetrics.WagnerFischer(a, b, 1, 1, 2)
}

// compact rewrites strs over a shared one-byte alphabet, one byte per rune,
// so byte lengths and the byte-based distance count code points. The
// strings come back unchanged when they use more than 256 distinct runes.
func compact(strs ...string) []string {
	alphabet := make(map[rune]byte)
	out := make([]string, len(strs))
	for i, s := range strs {
		buf := make([]byte, 0, len(s))
		for _, r := range s {
			code, ok := alphabet[r]
			if !ok {
				if len(alphabet) == 256 {
					return strs
				}
				code = byte(len(alphabet))
				alphabet[r] = code
			}
			buf = append(buf, code)
		}
		out[i] = string(buf)
	}
	return out
}

// normalizedSimilarity converts an indel distance into a 0-100 score given
// the combined length of both sides.
func normalizedSimilarity(dist, lensum int) float64 {
	if lensum == 0 {
		return 100
	}
	return 100 * (1 - float64(dist)/float64(lensum))
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}

func sortedJoin(set map[string]struct{}) string {
	toks := make([]string, 0, len(set))
	for tok := range set {
		toks = append(toks, tok)
	}
	sort.Strings(toks)
	return strings.Join(toks, " ")
}

// TokenSetRatio scores a against b in [0,100] after running both through
// Process. The score is 100 when one token set contains the other, and is
// otherwise the best of three ratios built from the sorted intersection and
// the two sorted differences. Lengths and distances count runes.
func TokenSetRatio(a, b string) float64 {
	pa, pb := Process(a), Process(b)
	if pa == "" || pb == "" {
		return 0
	}

	setA, setB := tokenSet(pa), tokenSet(pb)
	intersect := make(map[string]struct{})
	diffAB := make(map[string]struct{})
	diffBA := make(map[string]struct{})
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersect[tok] = struct{}{}
		} else {
			diffAB[tok] = struct{}{}
		}
	}
	for tok := range setB {
		if _, ok := setA[tok]; !ok {
			diffBA[tok] = struct{}{}
		}
	}

	if len(intersect) > 0 && (len(diffAB) == 0 || len(diffBA) == 0) {
		return 100
	}

	joined := compact(sortedJoin(intersect), sortedJoin(diffAB), sortedJoin(diffBA))
	diffABJoined, diffBAJoined := joined[1], joined[2]
	abLen := len(diffABJoined)
	baLen := len(diffBAJoined)
	sectLen := len(joined[0])

	sep := 0
	if sectLen != 0 {
		sep = 1
	}
	sectABLen := sectLen + sep + abLen
	sectBALen := sectLen + sep + baLen

	result := normalizedSimilarity(indel(diffABJoined, diffBAJoined), sectABLen+sectBALen)
	if sectLen == 0 {
		return result
	}

	// The intersection is shared by both sides, so only the separator and
	// the difference contribute to the distance.
	sectABRatio := normalizedSimilarity(sep+abLen, sectLen+sectABLen)
	sectBARatio := normalizedSimilarity(sep+baLen, sectLen+sectBALen)

	return max(result, sectABRatio, sectBARatio)
}

// ExtractOne returns the choice with the highest TokenSetRatio against query.
// The earliest choice wins a tie. ok is false for a blank query or when there
// are no choices.
func ExtractOne(query string, choices []string) (best Match, ok bool) {
	if strings.TrimSpace(query) == "" || len(choices) == 0 {
		return Match{}, false
	}

	best = Match{Index: -1, Score: -1}
	for i, choice := range choices {
		score := TokenSetRatio(query, choice)
		if score > best.Score {
			best = Match{Choice: choice, Score: score, Index: i}
		}
	}
	return best, true
}
