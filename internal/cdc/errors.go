package cdc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// ExtractMessage pulls a human readable message out of an error body whose
// shape is not guaranteed. In order of preference:
//
//   - "detail" as a string
//   - "detail" as a list of {loc, msg} field errors, rendered "a.b: msg" and
//     joined with ", " in list order
//   - "detail" as an object with "message" or "msg"
//   - top-level "message" or "error" strings
//
// Anything else, including bodies that are not JSON objects, yields fallback.
func ExtractMessage(body []byte, fallback string) string {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fallback
	}
	if raw, ok := envelope["detail"]; ok {
		if msg := detailMessage(raw); msg != "" {
			return msg
		}
	}
	for _, key := range []string{"message", "error"} {
		if msg := rawString(envelope[key]); msg != "" {
			return msg
		}
	}
	return fallback
}

func detailMessage(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		return rawString(raw)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return ""
		}
		var parts []string
		for _, item := range items {
			if part := fieldError(item); part != "" {
				parts = append(parts, part)
			}
		}
		return strings.Join(parts, ", ")
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return ""
		}
		if msg := rawString(obj["message"]); msg != "" {
			return msg
		}
		return rawString(obj["msg"])
	}
	return ""
}

// fieldError renders one entry of a detail list.
func fieldError(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	if raw[0] == '"' {
		return rawString(raw)
	}
	var fe struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &fe); err != nil {
		return ""
	}
	msg := strings.TrimSpace(fe.Msg)
	if msg == "" {
		return ""
	}
	loc := make([]string, 0, len(fe.Loc))
	for _, part := range fe.Loc {
		switch v := part.(type) {
		case string:
			loc = append(loc, v)
		case float64:
			loc = append(loc, strconv.FormatFloat(v, 'f', -1, 64))
		case nil:
		default:
			loc = append(loc, fmt.Sprint(v))
		}
	}
	if len(loc) == 0 {
		return msg
	}
	return strings.Join(loc, ".") + ": " + msg
}

func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
