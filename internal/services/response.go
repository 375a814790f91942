package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrUnparseableResponse = errors.New("no parseable JSON in model response")

// UnparseableResponseError keeps the raw model output attached to the parse
// failure so callers can surface it for debugging or manual recovery.
type UnparseableResponseError struct {
	Raw string
	Err error
}

func (e *UnparseableResponseError) Error() string {
	return fmt.Sprintf("%v: %v", ErrUnparseableResponse, e.Err)
}

func (e *UnparseableResponseError) Unwrap() error {
	return ErrUnparseableResponse
}

// RawResponse extracts the raw model output attached to err, if any.
func RawResponse(err error) (string, bool) {
	var unparseable *UnparseableResponseError
	if errors.As(err, &unparseable) {
		return unparseable.Raw, true
	}
	return "", false
}

// DecodeJSONResponse interprets a model response that should contain a JSON
// object. Three strategies run in order: a direct parse of the whole
// response, extraction of a fenced ```json block, and a bracket-matched scan
// for an object containing knownKey. The raw response is never discarded on
// failure.
func DecodeJSONResponse(response, knownKey string, target any) error {
	trimmed := strings.TrimSpace(response)

	if err := json.Unmarshal([]byte(trimmed), target); err == nil {
		return nil
	}

	if fenced, ok := extractFencedJSON(trimmed); ok {
		if err := json.Unmarshal([]byte(fenced), target); err == nil {
			return nil
		}
	}

	if knownKey != "" {
		if candidate, ok := scanForObject(trimmed, knownKey); ok {
			if err := json.Unmarshal([]byte(candidate), target); err == nil {
				return nil
			}
		}
	}

	return &UnparseableResponseError{
		Raw: response,
		Err: fmt.Errorf("tried direct, fenced and scanned parses"),
	}
}

// extractFencedJSON pulls the contents of the first ```json code fence, or
// any ``` fence when no json-tagged one exists.
func extractFencedJSON(text string) (string, bool) {
	for _, marker := range []string{"```json", "```"} {
		start := strings.Index(text, marker)
		if start == -1 {
			continue
		}
		rest := text[start+len(marker):]
		end := strings.Index(rest, "```")
		if end == -1 {
			continue
		}
		if body := strings.TrimSpace(rest[:end]); body != "" {
			return body, true
		}
	}
	return "", false
}

// scanForObject walks the text for brace-balanced substrings and returns the
// first one that contains knownKey as a quoted field name. String literals
// are tracked so braces inside them do not unbalance the scan.
func scanForObject(text, knownKey string) (string, bool) {
	quoted := `"` + knownKey + `"`

	start := strings.IndexByte(text, '{')
	for start != -1 {
		candidate, end := balancedObject(text, start)
		if end == -1 {
			return "", false
		}
		if strings.Contains(candidate, quoted) {
			return candidate, true
		}

		next := strings.IndexByte(text[end:], '{')
		if next == -1 {
			return "", false
		}
		start = end + next
	}
	return "", false
}

// balancedObject returns the brace-balanced substring starting at start and
// the index just past it, or -1 when the object never closes.
func balancedObject(text string, start int) (string, int) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], i + 1
			}
		}
	}
	return "", -1
}
