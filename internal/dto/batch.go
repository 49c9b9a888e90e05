package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/SscSPs/finance_batch_pipeline/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SubmitBatchRequest is a batch of transaction rows posted as JSON objects keyed by column name.
type SubmitBatchRequest struct {
	Source string                 `json:"source,omitempty" example:"erp-export-2024-03"`
	Rows   []map[string]any       `json:"rows" binding:"required"`
	Policy *PolicyOverrideRequest `json:"policy,omitempty"`
}

// UnmarshalJSON decodes numeric cells as json.Number so amounts reach the rule engine
// with every digit the client sent.
func (r *SubmitBatchRequest) UnmarshalJSON(data []byte) error {
	type plain SubmitBatchRequest
	var p plain
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&p); err != nil {
		return err
	}
	*r = SubmitBatchRequest(p)
	return nil
}

// PolicyOverrideRequest overrides individual fields of the configured validation policy.
type PolicyOverrideRequest struct {
	MaxRejectRate        *decimal.Decimal `json:"maxRejectRate,omitempty" swaggertype:"string" example:"0.05"`
	MaxRejectRows        *int             `json:"maxRejectRows,omitempty" binding:"omitempty,gte=0"`
	Mode                 *string          `json:"mode,omitempty" binding:"omitempty,oneof=STRICT LENIENT strict lenient"`
	QuarantineDuplicates *bool            `json:"quarantineDuplicates,omitempty"`
}

// ApplyTo returns base with the requested overrides applied.
func (p *PolicyOverrideRequest) ApplyTo(base domain.ValidationPolicy) (domain.ValidationPolicy, error) {
	if p == nil {
		return base, nil
	}
	out := base
	if p.MaxRejectRate != nil {
		out.MaxRejectRate = *p.MaxRejectRate
	}
	if p.MaxRejectRows != nil {
		out.MaxRejectRows = *p.MaxRejectRows
	}
	if p.Mode != nil {
		mode, err := domain.ParseGateMode(*p.Mode)
		if err != nil {
			return base, err
		}
		out.Mode = mode
	}
	if p.QuarantineDuplicates != nil {
		out.QuarantineDuplicates = *p.QuarantineDuplicates
	}
	return out, out.Validate()
}

// ToRecordSet turns the posted rows into a record set. Columns are the known fields in
// schema order followed by any other keys in name order. A key absent from a row
// becomes a null value for that row.
func (r SubmitBatchRequest) ToRecordSet() (domain.RecordSet, error) {
	if len(r.Rows) == 0 {
		return domain.RecordSet{Columns: append([]string(nil), domain.RequiredFields...)}, nil
	}

	seen := map[string]bool{}
	for _, row := range r.Rows {
		for k := range row {
			seen[k] = true
		}
	}
	known := append(append([]string(nil), domain.RequiredFields...), domain.FieldDescription)
	columns := make([]string, 0, len(seen))
	for _, k := range known {
		if seen[k] {
			columns = append(columns, k)
			delete(seen, k)
		}
	}
	extras := make([]string, 0, len(seen))
	for k := range seen {
		extras = append(extras, k)
	}
	sort.Strings(extras)
	columns = append(columns, extras...)

	records := make([]domain.TransactionRecord, len(r.Rows))
	for i, row := range r.Rows {
		for _, col := range columns {
			v, err := cellValue(row[col])
			if err != nil {
				return domain.RecordSet{}, fmt.Errorf("row %d column %s: %w", i, col, err)
			}
			records[i].SetField(col, v)
		}
	}
	return domain.RecordSet{Columns: columns, Records: records}, nil
}

func cellValue(v any) (*string, error) {
	var s string
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		s = t
	case json.Number:
		s = t.String()
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
	return &s, nil
}

// RejectedRowResponse is one quarantined row with its reasons.
type RejectedRowResponse struct {
	Index         int                `json:"index"`
	TransactionID *string            `json:"transactionID"`
	Reasons       []string           `json:"reasons"`
	Record        map[string]*string `json:"record"`
}

// BatchResponse is returned after a batch has been processed.
type BatchResponse struct {
	Run          RunResponse             `json:"run"`
	Report       domain.ValidationReport `json:"report"`
	RejectedRows []RejectedRowResponse   `json:"rejectedRows"`
}

// ToBatchResponse converts a batch outcome to its response form.
func ToBatchResponse(outcome *domain.BatchOutcome) BatchResponse {
	res := outcome.Result
	rejected := make([]RejectedRowResponse, len(res.Split.Rejected))
	for i, o := range res.Split.Rejected {
		reasons := make([]string, len(o.Reasons))
		for j, r := range o.Reasons {
			reasons[j] = string(r)
		}
		record := make(map[string]*string, len(res.Columns))
		for _, col := range res.Columns {
			record[col] = o.Record.Field(col)
		}
		rejected[i] = RejectedRowResponse{
			Index:         o.Index,
			TransactionID: o.Record.TransactionID,
			Reasons:       reasons,
			Record:        record,
		}
	}
	return BatchResponse{
		Run:          ToRunResponse(&outcome.Run),
		Report:       res.Report,
		RejectedRows: rejected,
	}
}
