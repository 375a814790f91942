package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// stubGenerator replays a scripted sequence of responses, one per attempt.
type stubGenerator struct {
	responses []stubResponse
	calls     int
}

type stubResponse struct {
	text string
	err  error
}

func (s *stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	if s.calls >= len(s.responses) {
		return "", errors.New("unexpected extra call")
	}
	response := s.responses[s.calls]
	s.calls++
	return response.text, response.err
}

func rateLimitError() error {
	return genai.APIError{Code: 429, Message: "quota exceeded"}
}

func testPolicy(slept *[]time.Duration) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		Sleep: func(d time.Duration) {
			*slept = append(*slept, d)
		},
	}
}

func TestComplete_RetriesRateLimitThenSucceeds(t *testing.T) {
	generator := &stubGenerator{responses: []stubResponse{
		{err: rateLimitError()},
		{err: rateLimitError()},
		{text: `{"ok": true}`},
	}}

	var slept []time.Duration
	gateway := newCompletionGatewayWith(generator, testPolicy(&slept), zap.NewNop())

	response, err := gateway.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete() error = %v, want nil", err)
	}
	if response != `{"ok": true}` {
		t.Errorf("Complete() = %q, want the third response", response)
	}
	if generator.calls != 3 {
		t.Errorf("generator calls = %d, want 3", generator.calls)
	}

	// Backoff doubles per attempt off the base delay.
	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(slept) != len(want) {
		t.Fatalf("slept %d times, want %d", len(slept), len(want))
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Errorf("sleep %d = %v, want %v", i, slept[i], want[i])
		}
	}
}

func TestComplete_RateLimitExhausted(t *testing.T) {
	generator := &stubGenerator{responses: []stubResponse{
		{err: rateLimitError()},
		{err: rateLimitError()},
		{err: rateLimitError()},
	}}

	var slept []time.Duration
	gateway := newCompletionGatewayWith(generator, testPolicy(&slept), zap.NewNop())

	_, err := gateway.Complete(context.Background(), "prompt")
	if !errors.Is(err, ErrRateLimitExceeded) {
		t.Fatalf("Complete() error = %v, want ErrRateLimitExceeded", err)
	}
	if generator.calls != 3 {
		t.Errorf("generator calls = %d, want 3", generator.calls)
	}
	// No sleep after the final attempt.
	if len(slept) != 2 {
		t.Errorf("slept %d times, want 2", len(slept))
	}
}

func TestComplete_NonRateLimitFailsImmediately(t *testing.T) {
	generator := &stubGenerator{responses: []stubResponse{
		{err: genai.APIError{Code: 500, Message: "internal"}},
	}}

	var slept []time.Duration
	gateway := newCompletionGatewayWith(generator, testPolicy(&slept), zap.NewNop())

	_, err := gateway.Complete(context.Background(), "prompt")
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("Complete() error = %v, want ErrRequestFailed", err)
	}
	if generator.calls != 1 {
		t.Errorf("generator calls = %d, want 1", generator.calls)
	}
	if len(slept) != 0 {
		t.Errorf("slept %d times, want 0", len(slept))
	}
}

func TestComplete_ServerRetryHintOverridesBaseDelay(t *testing.T) {
	hinted := genai.APIError{
		Code:    429,
		Message: "quota exceeded",
		Details: []map[string]any{
			{"@type": "type.googleapis.com/google.rpc.RetryInfo", "retryDelay": "7s"},
		},
	}
	generator := &stubGenerator{responses: []stubResponse{
		{err: hinted},
		{text: "ok"},
	}}

	var slept []time.Duration
	gateway := newCompletionGatewayWith(generator, testPolicy(&slept), zap.NewNop())

	if _, err := gateway.Complete(context.Background(), "prompt"); err != nil {
		t.Fatalf("Complete() error = %v, want nil", err)
	}
	if len(slept) != 1 || slept[0] != 7*time.Second {
		t.Errorf("slept = %v, want [7s]", slept)
	}
}

func TestComplete_MissingCredential(t *testing.T) {
	gateway := &CompletionGateway{policy: DefaultRetryPolicy(), logger: zap.NewNop()}

	if gateway.Configured() {
		t.Error("Configured() = true, want false")
	}

	_, err := gateway.Complete(context.Background(), "prompt")
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("Complete() error = %v, want ErrMissingCredential", err)
	}
}
