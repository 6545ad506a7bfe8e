// Package repair applies heuristic, rule-based rewrites to raw JSON text so
// that commonly malformed exports become parseable. It targets a known,
// enumerable class of structural defects (barewords, stray tokens, trailing
// commas, unquoted keys); it does not attempt general text repair and it does
// not guarantee the result parses.
package repair

import (
	"fmt"
	"regexp"
	"strings"
)

// Fix describes one applied rewrite: which rule fired, what it saw and what it
// wrote back. Fixes are diagnostic output only and are never re-parsed.
type Fix struct {
	Rule        string
	Description string
	Original    string
	Replacement string
}

// Rule names as they appear in Fix.Rule and in logs/metrics.
const (
	RuleBareword      = "bareword_value"
	RuleNumberUnit    = "number_with_unit"
	RuleTrailingComma = "trailing_comma"
	RuleUnquotedKey   = "unquoted_key"
	RuleStrayNumber   = "stray_number"
)

var (
	// A capitalized bareword in value position: `: Springfield,`.
	reBareword = regexp.MustCompile(`:\s*([A-Z][a-zA-Z]*)\s*([,}])`)

	// A bare number followed by a lowercase unit token: `: 5649 sqft,`.
	reNumberUnit = regexp.MustCompile(`:\s*(\d+(?:\.\d+)?)\s+([a-z]+)\s*([,}])`)

	// A comma directly before a closing brace or bracket: `3,}`.
	reTrailingComma = regexp.MustCompile(`,\s*([}\]])`)

	// An unquoted object key right after an opening brace: `{Bed: 3`.
	reUnquotedKey = regexp.MustCompile(`\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*:`)

	// A bare number wedged between a comma and the next delimiter: `, 42,`.
	// Stray leftover content, not a value; it has no key.
	reStrayNumber = regexp.MustCompile(`,\s*(\d+)\s*([,}])`)
)

// reservedWords are JSON literals that must never be quoted.
var reservedWords = map[string]struct{}{
	"true":  {},
	"false": {},
	"null":  {},
}

// Repair runs every rewrite rule over raw, in a fixed order, each as a single
// global pass. Later rules assume earlier ones have already normalized the
// text: the unit rule runs before stray-number removal, so a number carrying a
// unit token is always quoted rather than deleted.
//
// Repair is a pure function of its input and cannot fail; whether the output
// actually parses is the parser's verdict, not this package's.
func Repair(raw string) (string, []Fix) {
	var fixes []Fix

	out := rewriteAll(raw, reBareword, func(sub []string) (string, bool) {
		word, delim := sub[1], sub[2]
		if _, ok := reservedWords[strings.ToLower(word)]; ok {
			return "", false
		}
		if digits, ok := numberWordToDigits(word); ok {
			fixes = append(fixes, Fix{
				Rule:        RuleBareword,
				Description: fmt.Sprintf("converted number word %q to %s", word, digits),
				Original:    word,
				Replacement: digits,
			})
			return ": " + digits + delim, true
		}
		fixes = append(fixes, Fix{
			Rule:        RuleBareword,
			Description: fmt.Sprintf("quoted bareword %q", word),
			Original:    word,
			Replacement: `"` + word + `"`,
		})
		return `: "` + word + `"` + delim, true
	})

	out = rewriteAll(out, reNumberUnit, func(sub []string) (string, bool) {
		number, unit, delim := sub[1], sub[2], sub[3]
		quoted := `"` + number + " " + unit + `"`
		fixes = append(fixes, Fix{
			Rule:        RuleNumberUnit,
			Description: fmt.Sprintf("quoted number with unit: %s %s", number, unit),
			Original:    number + " " + unit,
			Replacement: quoted,
		})
		return ": " + quoted + delim, true
	})

	out = rewriteAll(out, reTrailingComma, func(sub []string) (string, bool) {
		delim := sub[1]
		fixes = append(fixes, Fix{
			Rule:        RuleTrailingComma,
			Description: "removed trailing comma before " + delim,
			Original:    "," + delim,
			Replacement: delim,
		})
		return delim, true
	})

	out = rewriteAll(out, reUnquotedKey, func(sub []string) (string, bool) {
		key := sub[1]
		fixes = append(fixes, Fix{
			Rule:        RuleUnquotedKey,
			Description: fmt.Sprintf("quoted unquoted key %q", key),
			Original:    key,
			Replacement: `"` + key + `"`,
		})
		return `{"` + key + `":`, true
	})

	out = rewriteAll(out, reStrayNumber, func(sub []string) (string, bool) {
		number, delim := sub[1], sub[2]
		fixes = append(fixes, Fix{
			Rule:        RuleStrayNumber,
			Description: fmt.Sprintf("removed stray number %s", number),
			Original:    "," + number,
			Replacement: "",
		})
		return delim, true
	})

	return out, fixes
}

// rewriteAll is ReplaceAllStringFunc with submatch access. The rewrite
// callback returns the replacement text and whether to replace at all;
// returning false keeps the match untouched (used for reserved words).
func rewriteAll(src string, re *regexp.Regexp, rewrite func(sub []string) (string, bool)) string {
	return re.ReplaceAllStringFunc(src, func(match string) string {
		sub := re.FindStringSubmatch(match)
		if sub == nil {
			return match
		}
		if out, ok := rewrite(sub); ok {
			return out
		}
		return match
	})
}
