package storage

import "strings"

// SplitSQLStatements turns a SQL schema file's contents into individual
// executable statements: full-line and trailing "--" comments are stripped,
// the remainder is split on ";", and empty statements are dropped. String
// literals containing ";" or "--" are not supported; schema files here are
// plain DDL.
func SplitSQLStatements(content string) []string {
	var clean strings.Builder
	for _, line := range strings.Split(content, "\n") {
		if i := strings.Index(line, "--"); i >= 0 {
			line = line[:i]
		}
		clean.WriteString(line)
		clean.WriteByte('\n')
	}

	var stmts []string
	for _, raw := range strings.Split(clean.String(), ";") {
		stmt := strings.TrimSpace(raw)
		if stmt == "" {
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}
