package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// maxEnvelopeDepth bounds how many nested "data" wrappers are peeled off.
const maxEnvelopeDepth = 3

type envelope struct {
	Data json.RawMessage `json:"data"`
}

// decodeList decodes a list that may be bare or nested under "data" keys.
// A missing or null list decodes to nothing.
func decodeList(raw []byte, out any) error {
	raw = bytes.TrimSpace(raw)
	for depth := 0; depth <= maxEnvelopeDepth; depth++ {
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			return nil
		}
		switch raw[0] {
		case '[':
			return json.Unmarshal(raw, out)
		case '{':
			var env envelope
			if err := json.Unmarshal(raw, &env); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			raw = bytes.TrimSpace(env.Data)
		default:
			return fmt.Errorf("decode response: unexpected list payload %.40q", raw)
		}
	}
	return fmt.Errorf("decode response: list nested too deeply")
}

// decodeObject decodes an object, unwrapping one "data" level if present.
func decodeObject(raw []byte, out any) error {
	raw = bytes.TrimSpace(raw)
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		if d := bytes.TrimSpace(env.Data); len(d) > 0 && d[0] == '{' {
			raw = d
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
