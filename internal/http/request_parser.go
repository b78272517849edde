// Package http provides the JSON API over the transaction repository and
// analytics engine.
//
// This file decodes request bodies and applies the entry-form rules before
// anything reaches the repository.
package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

const maxBodyBytes = 1 << 20

// ErrMalformedBody marks bodies that are not the expected JSON object.
var ErrMalformedBody = errors.New("malformed request body")

// amountField accepts an amount as a JSON number or string.
type amountField struct {
	set   bool
	value decimal.Decimal
	err   error
}

func (a *amountField) UnmarshalJSON(data []byte) error {
	a.set = true
	if bytes.Equal(data, []byte("null")) {
		a.err = core.ErrInvalidAmount
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		s = string(data)
	}
	a.value, a.err = core.ParseAmount(s)
	return nil
}

type transactionRequest struct {
	Title    *string     `json:"title"`
	Amount   amountField `json:"amount"`
	Type     *string     `json:"type"`
	Category *string     `json:"category"`
	Date     *string     `json:"date"`
	Notes    *string     `json:"notes"`
}

type sessionRequest struct {
	Name string `json:"name"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data", ErrMalformedBody)
	}
	return nil
}

// ParseTransactionInput decodes and validates a new transaction. An absent
// category becomes Other; an absent date is left for the repository to fill.
func ParseTransactionInput(w http.ResponseWriter, r *http.Request, now time.Time) (core.Input, error) {
	var req transactionRequest
	if err := decodeBody(w, r, &req); err != nil {
		return core.Input{}, err
	}

	in := core.Input{Category: core.CategoryOther}
	if req.Title != nil {
		in.Title = sanitizeInput(*req.Title)
	}
	if !req.Amount.set || req.Amount.err != nil {
		return core.Input{}, core.ErrInvalidAmount
	}
	in.Amount = req.Amount.value
	if req.Type == nil {
		return core.Input{}, core.ErrInvalidType
	}
	typ, err := core.ParseType(*req.Type)
	if err != nil {
		return core.Input{}, err
	}
	in.Type = typ
	if req.Category != nil && sanitizeInput(*req.Category) != "" {
		in.Category = sanitizeInput(*req.Category)
	}
	if req.Date != nil {
		in.Date = sanitizeInput(*req.Date)
	}
	if req.Notes != nil {
		in.Notes = sanitizeInput(*req.Notes)
	}

	if err := in.Validate(now); err != nil {
		return core.Input{}, err
	}
	return in, nil
}

// ParsePatch decodes and validates a partial update. Only present fields
// are checked.
func ParsePatch(w http.ResponseWriter, r *http.Request, now time.Time) (core.Patch, error) {
	var req transactionRequest
	if err := decodeBody(w, r, &req); err != nil {
		return core.Patch{}, err
	}

	var p core.Patch
	if req.Title != nil {
		title := sanitizeInput(*req.Title)
		p.Title = &title
	}
	if req.Amount.set {
		if req.Amount.err != nil {
			return core.Patch{}, req.Amount.err
		}
		amount := req.Amount.value
		p.Amount = &amount
	}
	if req.Type != nil {
		typ, err := core.ParseType(*req.Type)
		if err != nil {
			return core.Patch{}, err
		}
		p.Type = &typ
	}
	if req.Category != nil {
		category := sanitizeInput(*req.Category)
		p.Category = &category
	}
	if req.Date != nil {
		date := sanitizeInput(*req.Date)
		p.Date = &date
	}
	if req.Notes != nil {
		notes := sanitizeInput(*req.Notes)
		p.Notes = &notes
	}

	if err := p.Validate(now); err != nil {
		return core.Patch{}, err
	}
	return p, nil
}

// ParseSessionName decodes the sign-in body and checks the name length.
func ParseSessionName(w http.ResponseWriter, r *http.Request) (string, error) {
	var req sessionRequest
	if err := decodeBody(w, r, &req); err != nil {
		return "", err
	}
	name := sanitizeInput(req.Name)
	if err := core.ValidateUserName(name); err != nil {
		return "", err
	}
	return name, nil
}
