package models

// RawTable is a rectangular view of one uploaded file: the column headers in
// file order plus one RawRow per data line. Column presence is checked here
// even when the file carries no data rows.
type RawTable struct {
	Columns []string
	Rows    []RawRow
}

// HasColumn reports whether the table header declares the named column.
func (t *RawTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}
