package services

import (
	"errors"
	"testing"
)

func TestDecodeJSONResponse_Direct(t *testing.T) {
	var target struct {
		Name string `json:"name"`
	}
	err := DecodeJSONResponse(`{"name": "Jane Doe"}`, "name", &target)
	if err != nil {
		t.Fatalf("DecodeJSONResponse() error = %v, want nil", err)
	}
	if target.Name != "Jane Doe" {
		t.Errorf("Name = %q, want %q", target.Name, "Jane Doe")
	}
}

func TestDecodeJSONResponse_FencedBlock(t *testing.T) {
	response := "Here is the extraction:\n```json\n{\"name\": \"Jane Doe\"}\n```\nLet me know if you need more."

	var target struct {
		Name string `json:"name"`
	}
	if err := DecodeJSONResponse(response, "name", &target); err != nil {
		t.Fatalf("DecodeJSONResponse() error = %v, want nil", err)
	}
	if target.Name != "Jane Doe" {
		t.Errorf("Name = %q, want %q", target.Name, "Jane Doe")
	}
}

func TestDecodeJSONResponse_EmbeddedObjectScan(t *testing.T) {
	// Prose around the object, a decoy object without the key, and braces
	// inside string values.
	response := `The model config is {"temperature": 0.2}. Result: {"name": "A {quoted} person", "score": 8} as requested.`

	var target struct {
		Name  string  `json:"name"`
		Score float64 `json:"score"`
	}
	if err := DecodeJSONResponse(response, "name", &target); err != nil {
		t.Fatalf("DecodeJSONResponse() error = %v, want nil", err)
	}
	if target.Name != "A {quoted} person" {
		t.Errorf("Name = %q", target.Name)
	}
	if target.Score != 8 {
		t.Errorf("Score = %v, want 8", target.Score)
	}
}

func TestDecodeJSONResponse_UnparseableKeepsRaw(t *testing.T) {
	response := "I'm sorry, I can't produce JSON for that."

	var target map[string]any
	err := DecodeJSONResponse(response, "name", &target)
	if !errors.Is(err, ErrUnparseableResponse) {
		t.Fatalf("DecodeJSONResponse() error = %v, want ErrUnparseableResponse", err)
	}

	raw, ok := RawResponse(err)
	if !ok {
		t.Fatal("RawResponse() ok = false, want true")
	}
	if raw != response {
		t.Errorf("RawResponse() = %q, want the original response", raw)
	}
}

func TestDecodeJSONResponse_UnclosedObjectFails(t *testing.T) {
	var target map[string]any
	err := DecodeJSONResponse(`{"name": "never closed`, "name", &target)
	if !errors.Is(err, ErrUnparseableResponse) {
		t.Fatalf("DecodeJSONResponse() error = %v, want ErrUnparseableResponse", err)
	}
}

func TestExtractFencedJSON(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"json tagged fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`, true},
		{"untagged fence", "```\n{\"a\": 1}\n```", `{"a": 1}`, true},
		{"no fence", `{"a": 1}`, "", false},
		{"unterminated fence", "```json\n{\"a\": 1}", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractFencedJSON(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("body = %q, want %q", got, tt.want)
			}
		})
	}
}
