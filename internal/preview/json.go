package preview

import "github.com/tidwall/gjson"

// sniffJSON accepts an array of records or a single record. Columns are the
// keys of the first element in document order.
func sniffJSON(content []byte) (Table, error) {
	if !gjson.ValidBytes(content) {
		return Table{}, &Error{Kind: KindMalformedJSON, Reason: ErrMalformedJSON.Error()}
	}

	doc := gjson.ParseBytes(content)

	var elems []gjson.Result
	if doc.IsArray() {
		elems = doc.Array()
	} else {
		elems = []gjson.Result{doc}
	}

	if len(elems) == 0 {
		return Table{Columns: []string{}, Rows: []Row{}}, nil
	}

	// A key repeated within the first element is one column.
	columns := []string{}
	known := map[string]struct{}{}
	if elems[0].IsObject() {
		elems[0].ForEach(func(key, _ gjson.Result) bool {
			if _, dup := known[key.String()]; !dup {
				known[key.String()] = struct{}{}
				columns = append(columns, key.String())
			}
			return true
		})
	}

	if len(elems) > MaxRows {
		elems = elems[:MaxRows]
	}

	rows := make([]Row, 0, len(elems))
	for _, el := range elems {
		row := Row{}
		if el.IsObject() {
			el.ForEach(func(key, value gjson.Result) bool {
				if _, ok := known[key.String()]; ok {
					row[key.String()] = value.Value()
				}
				return true
			})
		}
		rows = append(rows, row)
	}

	return Table{Columns: columns, Rows: rows}, nil
}
