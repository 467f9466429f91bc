// Package scanner validates documents of newline separated CNPJs.
//
// Every function here is pure: the same content always yields the same
// result and nothing is kept between calls.
package scanner

import (
	"fmt"
	"strings"

	"github.com/nexconsult/cnpj-upload/internal/models"
	"github.com/nexconsult/cnpj-upload/internal/utils"
)

// SplitLines splits content on \n, \r\n and \r. A trailing line break does
// not produce an empty last line, and empty content has no lines.
func SplitLines(content string) []string {
	lines := make([]string, 0, strings.Count(content, "\n")+1)

	start := 0
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '\n':
			lines = append(lines, content[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, content[start:i])
			if i+1 < len(content) && content[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}

	if start < len(content) {
		lines = append(lines, content[start:])
	}
	return lines
}

// Scan checks every line and returns one LineError per invalid line, in file
// order. It never stops at the first failure. An empty slice means the whole
// document is valid.
func Scan(content string) []models.LineError {
	errs := make([]models.LineError, 0)

	for i, line := range SplitLines(content) {
		if !utils.IsValidIdentifier(strings.TrimSpace(line)) {
			errs = append(errs, newLineError(i+1, line))
		}
	}
	return errs
}

// Summarize counts valid identifiers and total lines. Blank lines count as
// lines but never as identifiers.
func Summarize(content string) models.Summary {
	lines := SplitLines(content)

	summary := models.Summary{TotalLines: len(lines)}
	for _, line := range lines {
		if utils.IsValidIdentifier(strings.TrimSpace(line)) {
			summary.ValidCount++
		}
	}
	return summary
}

// Analyze runs Scan and Summarize in a single pass over the lines
func Analyze(content string) models.ValidationReport {
	lines := SplitLines(content)

	report := models.ValidationReport{
		Errors:  make([]models.LineError, 0),
		Summary: models.Summary{TotalLines: len(lines)},
	}

	for i, line := range lines {
		if utils.IsValidIdentifier(strings.TrimSpace(line)) {
			report.Summary.ValidCount++
			continue
		}
		report.Errors = append(report.Errors, newLineError(i+1, line))
	}

	report.Valid = len(report.Errors) == 0
	return report
}

func newLineError(lineNumber int, raw string) models.LineError {
	return models.LineError{
		Line:   lineNumber,
		Raw:    raw,
		Reason: fmt.Sprintf("line %d: '%s' is not a valid CNPJ, it must contain exactly 14 digits", lineNumber, raw),
	}
}
