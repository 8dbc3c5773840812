// Package http provides the JSON API over a ledger tracker.
//
// This file implements utilities for parsing and validating HTTP request data:
// bodies that may be JSON or form-encoded, and the date and month query
// parameters shared by the projection endpoints.

package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"saldo/internal/core"
)

// maxBodyBytes bounds request bodies; ledger payloads are tiny.
const maxBodyBytes = 64 << 10

// maxProjectionMonths caps series and aggregate lengths.
const maxProjectionMonths = 600

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads at most maxBodyBytes of the body once.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	trimmed := bytes.TrimSpace(p.body)
	if len(trimmed) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if trimmed[0] == '{' || strings.HasPrefix(p.contentType, "application/json") {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		p.jsonData = make(map[string]any)
		if err := dec.Decode(&p.jsonData); err != nil {
			p.err = fmt.Errorf("invalid JSON body: %w", err)
			return p.err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(trimmed))
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// First returns the first non-empty value among keys.
func (p *RequestBodyParser) First(keys ...string) string {
	for _, k := range keys {
		if v := p.Get(k); v != "" {
			return v
		}
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// stringValue converts a decoded JSON value to string.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// DraftInput extracts a transaction draft. "type" is accepted as an alias of
// "kind" to match the export format.
func (p *RequestBodyParser) DraftInput() core.DraftInput {
	return core.DraftInput{
		Kind:        p.First("kind", "type"),
		Amount:      p.Get("amount"),
		Date:        p.Get("date"),
		Description: p.Get("description"),
		Recurrence:  p.Get("recurrence"),
	}
}

// AnchorInput extracts an initial balance.
func (p *RequestBodyParser) AnchorInput() core.AnchorInput {
	return core.AnchorInput{
		Amount: p.First("amount", "initialBalance"),
		Date:   p.First("date", "initialDate"),
	}
}

// ParseDateParam reads an ISO date from query key, defaulting to today.
func ParseDateParam(query url.Values, key string) (core.Date, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return core.Today(), nil
	}
	return core.ParseDate(v)
}

// ParseMonthParam reads a YYYY-MM month from query key and returns its first
// day, defaulting to the current month.
func ParseMonthParam(query url.Values, key string) (core.Date, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		today := core.Today()
		return core.NewDate(today.Year(), today.Month(), 1), nil
	}
	t, err := time.Parse("2006-01", v)
	if err != nil {
		return core.Date{}, fmt.Errorf("%w: %q is not YYYY-MM", core.ErrInvalidDate, v)
	}
	return core.DateOf(t), nil
}

// ParseMonthsParam reads a positive month count from query key.
func ParseMonthsParam(query url.Values, key string, def int) (int, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > maxProjectionMonths {
		return 0, fmt.Errorf("%s must be an integer between 1 and %d", key, maxProjectionMonths)
	}
	return n, nil
}
