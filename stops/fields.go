package stops

import "strings"

// SplitFields splits one line of delimited text into field values.
//
// A small character state machine tracks quote parity: the delimiter only
// separates fields while outside a quoted span, a quote toggles the span,
// and a doubled quote inside a span is an escaped literal quote. The
// enclosing quotes themselves are not part of the field value.
func SplitFields(line string, delim byte) []string {
	fields := make([]string, 0, 8)
	var buf []byte
	inQuotes := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				buf = append(buf, '"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == delim && !inQuotes:
			fields = append(fields, string(buf))
			buf = buf[:0]
		default:
			buf = append(buf, c)
		}
	}
	return append(fields, string(buf))
}

// quoteField applies the export quoting rule: a field is quoted only when it
// contains the delimiter or a double quote, with interior quotes doubled.
func quoteField(s string) string {
	if !strings.ContainsAny(s, ",\"") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// encodeValue renders one row value for delimited-text output. Only string
// values are subject to the quoting rule; numeric and boolean values render
// bare, mirroring how the records were captured.
func encodeValue(v any) string {
	if s, ok := v.(string); ok {
		return quoteField(s)
	}
	return formatValue(v)
}

// splitLines breaks raw text content into data lines, tolerating both LF
// and CRLF endings and ignoring blank lines.
func splitLines(text string) []string {
	raw := strings.Split(strings.TrimSpace(text), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSuffix(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}
