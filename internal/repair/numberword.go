package repair

import (
	"strconv"
	"strings"
)

// Static number-word tables, loaded once. The bareword rule only ever sees a
// single token (the regex matches one word), so this covers simple words like
// "Three" and glued compounds like "Twentyfive". Anything it cannot resolve
// is treated as an ordinary string bareword.
var (
	smallNumberWords = map[string]int{
		"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
		"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
		"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13,
		"fourteen": 14, "fifteen": 15, "sixteen": 16, "seventeen": 17,
		"eighteen": 18, "nineteen": 19,
		"hundred": 100, "thousand": 1000,
	}

	tensNumberWords = map[string]int{
		"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
		"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
	}
)

// numberWordToDigits converts a spelled-out English number word to its digit
// string. Matching is case-insensitive on ASCII letters.
func numberWordToDigits(word string) (string, bool) {
	w := asciiLower(word)
	if n, ok := smallNumberWords[w]; ok {
		return strconv.Itoa(n), true
	}
	if n, ok := tensNumberWords[w]; ok {
		return strconv.Itoa(n), true
	}

	// Glued tens+units compound: "twentyfive" -> 25.
	for tens, tv := range tensNumberWords {
		rest, ok := strings.CutPrefix(w, tens)
		if !ok || rest == "" {
			continue
		}
		if uv, ok := smallNumberWords[rest]; ok && uv >= 1 && uv <= 9 {
			return strconv.Itoa(tv + uv), true
		}
	}
	return "", false
}

func asciiLower(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
