package services

import (
	"strings"

	"github.com/SscSPs/finance_batch_pipeline/internal/apperrors"
	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
)

// CheckSchema verifies that every required column is present exactly once.
// Column names are compared after trimming; extra columns are allowed.
func CheckSchema(columns []string) error {
	seen := make(map[string]int, len(columns))
	for _, c := range columns {
		seen[strings.TrimSpace(c)]++
	}

	schemaErr := &apperrors.SchemaError{}
	for _, f := range domain.RequiredFields {
		if seen[f] == 0 {
			schemaErr.Missing = append(schemaErr.Missing, f)
		}
	}
	reported := make(map[string]bool)
	for _, c := range columns {
		name := strings.TrimSpace(c)
		if seen[name] > 1 && !reported[name] {
			reported[name] = true
			schemaErr.Duplicated = append(schemaErr.Duplicated, name)
		}
	}

	if len(schemaErr.Missing) > 0 || len(schemaErr.Duplicated) > 0 {
		return schemaErr
	}
	return nil
}
