package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/SscSPs/finance_batch_pipeline/internal/apperrors"
	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
)

// ReadFile decodes the CSV batch at path.
func ReadFile(path string) (domain.RecordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.RecordSet{}, fmt.Errorf("failed to open input %s: %w", path, err)
	}
	defer f.Close()

	rs, err := Decode(f)
	if err != nil {
		return domain.RecordSet{}, fmt.Errorf("failed to read input %s: %w", path, err)
	}
	return rs, nil
}

// Decode reads a header row followed by data rows. Header names are trimmed.
// Empty cells and cells missing at the end of a short row become nulls.
func Decode(r io.Reader) (domain.RecordSet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return domain.RecordSet{}, &apperrors.SchemaError{Missing: domain.RequiredFields}
	}
	if err != nil {
		return domain.RecordSet{}, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	rs := domain.RecordSet{Columns: columns}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.RecordSet{}, fmt.Errorf("failed to read line %d: %w", line, err)
		}
		if len(row) > len(columns) {
			return domain.RecordSet{}, fmt.Errorf("line %d has %d fields, header has %d: %w", line, len(row), len(columns), apperrors.ErrSchema)
		}

		var rec domain.TransactionRecord
		for i, col := range columns {
			var value *string
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				v := row[i]
				value = &v
			}
			rec.SetField(col, value)
		}
		rs.Records = append(rs.Records, rec)
	}
	return rs, nil
}
