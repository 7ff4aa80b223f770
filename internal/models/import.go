package models

// ImportRowError records why a single CSV data row was rejected. Row numbers
// are 1-based file line numbers, so the first data row is row 2.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult summarises a bulk CSV import. Processed counts every data row
// seen, including rejected ones.
type ImportResult struct {
	Processed int              `json:"processed"`
	Created   int              `json:"created"`
	Updated   int              `json:"updated"`
	Errors    []ImportRowError `json:"errors"`
}
