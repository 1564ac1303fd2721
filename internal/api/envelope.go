package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	apperrors "farmops/internal/errors"
)

// Unwrap applies the platform's envelope convention: when the body is a JSON
// object with a non-null "data" member the payload is that member, otherwise
// the payload is the body itself. Every endpoint goes through this one
// function.
func Unwrap(body []byte) (json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return json.RawMessage("null"), nil
	}
	if body[0] != '{' {
		return json.RawMessage(body), nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("malformed JSON response: %w", err)
	}
	if data, ok := envelope["data"]; ok && !isNull(data) {
		return data, nil
	}
	return json.RawMessage(body), nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

// requireKey fails with a ShapeError when payload is not an object carrying key.
func requireKey(path string, payload json.RawMessage, key string) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(payload, &obj); err != nil {
		return apperrors.NewShapeError(path, key)
	}
	if _, ok := obj[key]; !ok {
		return apperrors.NewShapeError(path, key)
	}
	return nil
}

// serverMessage extracts "message" or "error" from an error body.
func serverMessage(body []byte, fallback string) string {
	var fields struct {
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		return fallback
	}
	for _, raw := range []json.RawMessage{fields.Message, fields.Error} {
		if msg := messageText(raw); msg != "" {
			return msg
		}
	}
	return fallback
}

// messageText accepts a string or a list of strings (validation pipes often
// send the latter).
func messageText(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}

// pageMeta is the pagination block shared by list responses.
type pageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// normalize fills TotalPages from total/limit when the server omits it and
// floors it at one.
func (m pageMeta) normalize() pageMeta {
	if m.TotalPages < 1 && m.Limit > 0 {
		m.TotalPages = (m.Total + m.Limit - 1) / m.Limit
	}
	if m.TotalPages < 1 {
		m.TotalPages = 1
	}
	if m.Page < 1 {
		m.Page = 1
	}
	return m
}

func itoa(n int) string { return strconv.Itoa(n) }
