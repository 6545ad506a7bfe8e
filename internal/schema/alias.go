package schema

import (
	"strings"

	"golang.org/x/text/cases"
)

// Field resolution accepts the canonical snake_case names and the exporter's
// own spellings (Property_Title, BasementYesNo, SQFT_MU, ...). Both collapse
// to the same key once case is folded and separators are dropped, so the
// alias index only needs explicit entries where the spellings genuinely
// differ ("Zip" vs "zip_code").

// normalizeFieldName folds case and strips separator characters, making
// lookup insensitive to both case and naming convention.
func normalizeFieldName(name string) string {
	folded := cases.Fold().String(name)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch r {
		case '_', '-', ' ', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// buildAliasIndex maps normalized spellings to canonical field names.
// Resolution must be total and deterministic: a colliding alias panics at
// init rather than silently shadowing a field.
func buildAliasIndex(canonical []string, extraAliases map[string][]string) map[string]string {
	idx := make(map[string]string, len(canonical)+len(extraAliases))
	add := func(alias, canon string) {
		key := normalizeFieldName(alias)
		if prev, ok := idx[key]; ok && prev != canon {
			panic("schema: alias " + alias + " resolves to both " + prev + " and " + canon)
		}
		idx[key] = canon
	}
	for _, name := range canonical {
		add(name, name)
	}
	for canon, aliases := range extraAliases {
		for _, a := range aliases {
			add(a, canon)
		}
	}
	return idx
}

// resolveFields rewrites a raw record's keys to canonical names, dropping
// keys the schema does not know.
func resolveFields(rec map[string]any, idx map[string]string) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		if canon, ok := idx[normalizeFieldName(k)]; ok {
			out[canon] = v
		}
	}
	return out
}
