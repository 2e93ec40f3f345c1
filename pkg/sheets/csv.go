package sheets

import "strings"

// SplitLine tokenizes one delimited line respecting double-quote quoting: a
// delimiter inside a quoted span belongs to the field, and a quote character
// toggles quoted mode. Quote characters themselves are not kept. Fields are
// trimmed of surrounding whitespace.
//
// The published-CSV export of the sheet quotes any cell containing a comma,
// which is common for addresses ("123 Main St, Suite 4"), so the stdlib
// strings.Split is not enough here.
func SplitLine(line string, delimiter rune) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == delimiter && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}

// SplitLines splits raw CSV text into per-row field slices, dropping rows that
// are entirely empty. Handles both \n and \r\n line endings.
func SplitLines(raw string, delimiter rune) [][]string {
	var rows [][]string
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, SplitLine(line, delimiter))
	}
	return rows
}
