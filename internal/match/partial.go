package match

import (
	"math"

	"github.com/arbovm/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// PartialRatio scores how well the shorter string appears inside the longer
// one, from 0 to 100. Every window of the longer string with the length of
// the shorter one is compared by Levenshtein ratio and the best window wins,
// so "pilot" scores 100 against "Pilot (1)" and "Der Pilot".
//
// Inputs are NFC-normalized and case folded first.
func PartialRatio(a, b string) int {
	a, b = normalize(a), normalize(b)
	if a == b {
		if a == "" {
			return 0
		}
		return 100
	}

	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}

	shortStr := string(short)
	best := 0
	for start := 0; start+len(short) <= len(long); start++ {
		window := string(long[start : start+len(short)])
		dist := levenshtein.Distance(shortStr, window)
		score := int(math.Round(100 * (1 - float64(dist)/float64(len(short)))))
		if score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

func normalize(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
