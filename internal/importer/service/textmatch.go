package service

import (
	"sort"
	"strings"
	"unicode"
)

// Tokens shorter than 2 runes and these filler words carry no signal for
// duplicate detection.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {},
	"di": {}, "da": {}, "del": {}, "della": {}, "con": {}, "per": {},
	"una": {}, "uno": {}, "gli": {}, "le": {},
}

// Tokenize lower-cases, splits on non-alphanumeric boundaries and drops short
// tokens and stop words.
func Tokenize(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len([]rune(tok)) < 2 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		out[tok] = struct{}{}
	}
	return out
}

// minimum per-token similarity for two different tokens to count as a
// partial match ("wht" vs "white", titles truncated by the source site).
const tokenFuzzyFloor = 0.6

// Similarity scores two free-text strings in [0,1]. Base metric is Jaccard
// overlap of the token sets; tokens that almost match (normalized
// Damerau-Levenshtein above tokenFuzzyFloor) contribute fractional credit,
// and an exact substring relation raises the score toward 1 without ever
// reaching it on partial token overlap. 0 when either token set is empty.
// Pure function, safe for concurrent use.
func Similarity(a, b string) float64 {
	ta, tb := Tokenize(a), Tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	exact := 0
	var restA, restB []string
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			exact++
		} else {
			restA = append(restA, tok)
		}
	}
	for tok := range tb {
		if _, ok := ta[tok]; !ok {
			restB = append(restB, tok)
		}
	}
	sort.Strings(restA)
	sort.Strings(restB)

	// greedy best-pair credit for the leftover tokens
	fuzzy := 0.0
	paired := 0
	usedB := make([]bool, len(restB))
	for _, x := range restA {
		bestJ, bestSim := -1, tokenFuzzyFloor
		for j, y := range restB {
			if usedB[j] {
				continue
			}
			if s := tokenSimilarity(x, y); s >= bestSim {
				bestJ, bestSim = j, s
			}
		}
		if bestJ >= 0 {
			usedB[bestJ] = true
			fuzzy += bestSim
			paired++
		}
	}

	union := len(ta) + len(tb) - exact - paired
	score := (float64(exact) + fuzzy) / float64(union)

	// substring bonus: one description is a truncation of the other
	la, lb := normText(a), normText(b)
	if la != "" && lb != "" && la != lb &&
		(strings.Contains(la, lb) || strings.Contains(lb, la)) {
		score += (1 - score) / 2
	}
	if score > 1 {
		score = 1
	}
	return score
}

// tokenSimilarity: normalized Damerau-Levenshtein in [0,1].
func tokenSimilarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	m := la
	if lb > m {
		m = lb
	}
	if m == 0 {
		return 1
	}
	return 1 - float64(damerauLevenshtein(a, b))/float64(m)
}

func normText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
