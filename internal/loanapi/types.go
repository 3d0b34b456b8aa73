package loanapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the date formats the loan service is known to emit.
// Flask serialises dates as RFC1123 with a GMT zone.
//
//nolint:gochecknoglobals // Read-only lookup table.
var dateLayouts = []string{
	time.RFC1123,
	time.RFC1123Z,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01",
}

// LoanRecord is one row of the loan statistics dataset.
type LoanRecord struct {
	// Date is the raw date string, empty when missing.
	Date string `json:"date,omitempty" yaml:"date,omitempty"`
	// BookID is the book identifier, empty when missing or zero.
	BookID string `json:"book_id,omitempty" yaml:"book_id,omitempty"`
	// BorrowedCount is the number of loans, zero when missing.
	BorrowedCount int64 `json:"borrowed_count" yaml:"borrowed_count"`
}

// UnmarshalJSON accepts numbers or strings for book_id and borrowed_count.
// A row that is not an object decodes to the zero record.
func (r *LoanRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date          json.RawMessage `json:"date"`
		BookID        json.RawMessage `json:"book_id"`
		BorrowedCount json.RawMessage `json:"borrowed_count"`
	}
	*r = LoanRecord{}
	if !isObject(data) {
		return nil
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Date = scalarText(raw.Date)
	r.BookID = scalarText(raw.BookID)
	if r.BookID == "0" {
		r.BookID = ""
	}

	r.BorrowedCount = 0
	if count := scalarText(raw.BorrowedCount); count != "" {
		if f, err := strconv.ParseFloat(count, 64); err == nil {
			r.BorrowedCount = int64(f)
		}
	}

	return nil
}

// Time parses Date. ok is false when the date is missing or unparseable.
//
//nolint:nonamedreturns // Named returns document the pair.
func (r LoanRecord) Time() (t time.Time, ok bool) {
	if r.Date == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, r.Date); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// PredictRequest holds the inputs of a prediction.
type PredictRequest struct {
	Date       string `validate:"required,datetime=2006-01-02"`
	PeakSeason bool
	LowSeason  bool
	ModelNo    int `validate:"min=1"`
}

// Prediction is the result of a prediction request.
type Prediction struct {
	Date  string      `json:"date"       yaml:"date"`
	Value MetricValue `json:"prediction" yaml:"prediction"`
}

// MetricValue is a JSON scalar that may be a number or a string such as "N/A".
type MetricValue struct {
	raw json.RawMessage
}

// NewMetricValue wraps a raw JSON scalar.
func NewMetricValue(raw json.RawMessage) MetricValue {
	return MetricValue{raw: raw}
}

// UnmarshalJSON keeps the raw value.
func (v *MetricValue) UnmarshalJSON(data []byte) error {
	v.raw = append(v.raw[:0], data...)
	return nil
}

// MarshalJSON writes the raw value back, or null.
func (v MetricValue) MarshalJSON() ([]byte, error) {
	if v.IsMissing() {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// MarshalYAML writes numbers as floats, other scalars as text, and missing values as null.
func (v MetricValue) MarshalYAML() (interface{}, error) {
	if f, ok := v.Float(); ok {
		return f, nil
	}
	if v.IsMissing() {
		return nil, nil
	}
	return v.Text(), nil
}

// IsMissing reports whether the value is absent or null.
func (v MetricValue) IsMissing() bool {
	trimmed := bytes.TrimSpace(v.raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Float returns the value when it is a JSON number.
func (v MetricValue) Float() (float64, bool) {
	var n json.Number
	if err := json.Unmarshal(v.raw, &n); err != nil {
		return 0, false
	}
	// json.Number also accepts numeric strings; only bare numbers count.
	if trimmed := bytes.TrimSpace(v.raw); len(trimmed) > 0 && trimmed[0] == '"' {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// Text returns the value as text: strings unquoted, other scalars verbatim, "" when missing.
func (v MetricValue) Text() string {
	return scalarText(v.raw)
}

// ModelMetrics are the error metrics of one model, or the error that prevented computing them.
type ModelMetrics struct {
	Key   string      `json:"key"             yaml:"key"`
	Error string      `json:"error,omitempty" yaml:"error,omitempty"`
	MSE   MetricValue `json:"mse"             yaml:"mse"`
	RMSE  MetricValue `json:"rmse"            yaml:"rmse"`
	MAE   MetricValue `json:"mae"             yaml:"mae"`
	R2    MetricValue `json:"r2"              yaml:"r2"`
}

// Number returns the model number taken from a "model_<n>" key.
func (m ModelMetrics) Number() string {
	if _, n, ok := strings.Cut(m.Key, "_"); ok {
		return n
	}
	return m.Key
}

// HasError reports whether the entry carries an error instead of metrics.
func (m ModelMetrics) HasError() bool {
	return m.Error != ""
}

// Evaluation is the set of model metrics, ordered by model number.
type Evaluation struct {
	Models []ModelMetrics `json:"models" yaml:"models"`
}

// parseEvaluation converts the "data" object of an evaluate response.
func parseEvaluation(data json.RawMessage) (Evaluation, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return Evaluation{}, fmt.Errorf("%w: data is not an object: %w", ErrMalformedResponse, err)
	}

	models := make([]ModelMetrics, 0, len(entries))
	for key, raw := range entries {
		var entry struct {
			Error   json.RawMessage `json:"error"`
			MSE     MetricValue     `json:"mse"`
			RMSE    MetricValue     `json:"rmse"`
			MAE     MetricValue     `json:"mae"`
			R2Score MetricValue     `json:"r2_score"`
			R2      MetricValue     `json:"r2"`
		}
		if err := json.Unmarshal(raw, &entry); err != nil || !isObject(raw) {
			return Evaluation{}, fmt.Errorf("%w: %s is not an object", ErrMalformedResponse, key)
		}

		m := ModelMetrics{
			Key:   key,
			Error: scalarText(entry.Error),
			MSE:   entry.MSE,
			RMSE:  entry.RMSE,
			MAE:   entry.MAE,
			R2:    entry.R2Score,
		}
		if m.R2.IsMissing() {
			m.R2 = entry.R2
		}
		models = append(models, m)
	}

	sort.SliceStable(models, func(i, j int) bool {
		return modelLess(models[i], models[j])
	})

	return Evaluation{Models: models}, nil
}

// modelLess orders numeric model numbers first, numerically, then the rest by key.
func modelLess(a, b ModelMetrics) bool {
	na, errA := strconv.Atoi(a.Number())
	nb, errB := strconv.Atoi(b.Number())
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a.Key < b.Key
	}
}

// scalarText renders a JSON scalar as text. Strings are unquoted; null and missing give "".
func scalarText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	return string(trimmed)
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
