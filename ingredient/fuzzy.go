package ingredient

import "strings"

// Matches reports whether an ingredient name and a candidate item name refer
// to the same thing. Layered heuristic, first layer that triggers wins:
//
//  1. Exact match after normalization.
//  2. Containment in either direction.
//  3. Word overlap: tokens longer than two characters, matched by equality
//     or containment; enough when the count reaches min(2, size of the
//     smaller token set), so short names only need all their words matched.
//  4. Ratio of matched words to the larger token set, matching at 0.7.
//
// Exact and containment catches are cheap and precise; the word layers catch
// paraphrased or reworded ingredient text ("chicken breast" vs "boneless
// chicken breasts") at the cost of occasional false positives, which is
// acceptable because claims are reversible.
func Matches(ingredientName, candidateName string) bool {
	a := Normalize(ingredientName)
	b := Normalize(candidateName)
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}

	wordsA := overlapTokens(a)
	wordsB := overlapTokens(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return false
	}

	matched := 0
	for _, wa := range wordsA {
		for _, wb := range wordsB {
			if wa == wb || strings.Contains(wa, wb) || strings.Contains(wb, wa) {
				matched++
				break
			}
		}
	}

	need := min(2, len(wordsA), len(wordsB))
	if matched >= need {
		return true
	}

	longer := max(len(wordsA), len(wordsB))
	return float64(matched)/float64(longer) >= 0.7
}

// overlapTokens keeps only the words long enough to be meaningful for
// overlap counting; "of", "in", and stray digits drop out here.
func overlapTokens(normalized string) []string {
	var out []string
	for _, tok := range Tokens(normalized) {
		if len(tok) > 2 {
			out = append(out, tok)
		}
	}
	return out
}
