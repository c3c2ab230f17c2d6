package fileutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotObject is returned when model output does not start with a JSON object.
var ErrNotObject = errors.New("model output is not a JSON object")

// DecodeJSONObject unmarshals a model reply into v. Only surrounding whitespace is
// tolerated: fenced, prose-wrapped or truncated replies are errors.
func DecodeJSONObject(outputText string, v any) error {
	s := strings.TrimSpace(outputText)
	if s == "" {
		return io.ErrUnexpectedEOF
	}
	if s[0] != '{' {
		return fmt.Errorf("%w (starts with %q, len=%d)", ErrNotObject, Truncate(s, 16), len(s))
	}
	if err := json.Unmarshal([]byte(s), v); err != nil {
		return fmt.Errorf("unmarshal model JSON (len=%d): %w", len(s), err)
	}
	return nil
}
