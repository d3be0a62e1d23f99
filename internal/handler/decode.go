// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/olegiv/pathway-go/internal/validate"
)

// MaxBodySize caps JSON request bodies.
const MaxBodySize = 1 << 20

// ReadBody reads at most MaxBodySize bytes of the request body.
func ReadBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, validate.Errors{"body": fmt.Sprintf("must be at most %d bytes", MaxBodySize)}
		}
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return body, nil
}

// DecodeJSON decodes the request body into dst. Malformed JSON, unknown
// fields and oversized bodies are reported as validate.Errors.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := ReadBody(w, r)
	if err != nil {
		return err
	}
	return Unmarshal(body, dst)
}

// Unmarshal decodes a single JSON value from body, rejecting unknown fields.
func Unmarshal(body []byte, dst any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return validate.Errors{"body": "is required"}
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	if dec.More() {
		return validate.Errors{"body": "must contain a single JSON object"}
	}
	return nil
}

func decodeError(err error) error {
	var syntax *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntax), errors.Is(err, io.ErrUnexpectedEOF):
		return validate.Errors{"body": "is not valid JSON"}
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return validate.Errors{field: "has the wrong type"}
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		name := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return validate.Errors{name: "is not a known field"}
	default:
		var verrs validate.Errors
		if errors.As(err, &verrs) {
			return verrs
		}
		return validate.Errors{"body": "could not be decoded"}
	}
}
