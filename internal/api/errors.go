package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"
)

// maxMessageRunes bounds the text kept from a body that is not JSON.
const maxMessageRunes = 200

// Error is a non-2xx backend response.
type Error struct {
	Method  string
	Path    string
	Status  int
	Message string
	// Fields holds per-field validation messages from 422 responses.
	Fields map[string][]string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// FieldMessages returns every field message, ordered by field name.
func (e *Error) FieldMessages() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out []string
	for _, k := range keys {
		out = append(out, e.Fields[k]...)
	}
	return out
}

// Detail returns the most specific human-readable text for the error.
func (e *Error) Detail() string {
	if msgs := e.FieldMessages(); len(msgs) > 0 {
		return "• " + strings.Join(msgs, "\n• ")
	}
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 or 403 response.
func IsUnauthorized(err error) bool {
	s := StatusOf(err)
	return s == http.StatusUnauthorized || s == http.StatusForbidden
}

// IsValidation reports whether err is a 422 response.
func IsValidation(err error) bool { return StatusOf(err) == http.StatusUnprocessableEntity }

func newError(method, path string, status int, raw []byte) *Error {
	e := &Error{Method: method, Path: path, Status: status}
	var payload struct {
		Message string                     `json:"message"`
		Error   string                     `json:"error"`
		Errors  map[string]json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		e.Message = truncate(strings.TrimSpace(string(raw)), maxMessageRunes)
		return e
	}
	e.Message = payload.Message
	if e.Message == "" {
		e.Message = payload.Error
	}
	for field, v := range payload.Errors {
		var msgs []string
		if err := json.Unmarshal(v, &msgs); err != nil {
			var one string
			if json.Unmarshal(v, &one) != nil {
				continue
			}
			msgs = []string{one}
		}
		if e.Fields == nil {
			e.Fields = make(map[string][]string)
		}
		e.Fields[field] = msgs
	}
	return e
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
