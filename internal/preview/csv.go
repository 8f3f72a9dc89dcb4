package preview

import "strings"

// sniffCSV is a naive splitter: commas inside quoted fields are not honored.
// Short lines pad with "", long lines drop the surplus fields.
func sniffCSV(text string) (Table, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) < 2 {
		return Table{}, &Error{Kind: KindTooShort, Reason: ErrContentTooShort.Error()}
	}

	columns := splitFields(lines[0])

	data := lines[1:]
	if len(data) > MaxRows {
		data = data[:MaxRows]
	}

	rows := make([]Row, 0, len(data))
	for _, line := range data {
		fields := splitFields(line)
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(fields) {
				row[col] = fields[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return Table{Columns: columns, Rows: rows}, nil
}

func splitFields(line string) []string {
	parts := strings.Split(line, ",")
	for i, p := range parts {
		parts[i] = unquote(strings.TrimSpace(p))
	}
	return parts
}

// unquote strips one pair of enclosing double quotes.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
