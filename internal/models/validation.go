package models

// LineError describes one line that is not a valid CNPJ
type LineError struct {
	Line   int    `json:"line" example:"2"`
	Raw    string `json:"raw" example:"abc"`
	Reason string `json:"reason" example:"line 2: 'abc' is not a valid CNPJ, it must contain exactly 14 digits"`
}

// Summary holds the counts of a scanned document
type Summary struct {
	ValidCount int `json:"valid_count" example:"2"`
	TotalLines int `json:"total_lines" example:"3"`
}

// InvalidCount returns the number of lines that failed validation
func (s Summary) InvalidCount() int {
	return s.TotalLines - s.ValidCount
}

// ValidationReport is the outcome of scanning a document.
// Valid is true when Errors is empty.
type ValidationReport struct {
	Valid   bool        `json:"valid" example:"false"`
	Errors  []LineError `json:"errors"`
	Summary Summary     `json:"summary"`
}
