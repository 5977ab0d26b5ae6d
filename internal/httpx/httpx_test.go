package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"
)

type statusErr struct{ code int }

func (e *statusErr) Error() string       { return "upstream status" }
func (e *statusErr) HTTPStatusCode() int { return e.code }

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "dial timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline exceeded", context.DeadlineExceeded, false},
		{"canceled", context.Canceled, false},
		{"deadline wrapped in url.Error", &url.Error{Op: "Post", URL: "http://api", Err: context.DeadlineExceeded}, false},
		{"network timeout", timeoutErr{}, true},
		{"status 503", &statusErr{code: 503}, true},
		{"status 429", &statusErr{code: 429}, true},
		{"status 400", &statusErr{code: 400}, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tc := range cases {
		if got := IsRetryableError(tc.err); got != tc.want {
			t.Fatalf("%s: IsRetryableError = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestRetryAfterDuration(t *testing.T) {
	resp := &http.Response{Header: http.Header{"Retry-After": []string{"3"}}}
	if got := RetryAfterDuration(resp, time.Second, 10*time.Second); got != 3*time.Second {
		t.Fatalf("Retry-After header: got %v, want 3s", got)
	}
	if got := RetryAfterDuration(nil, 2*time.Second, 10*time.Second); got != 2*time.Second {
		t.Fatalf("fallback: got %v, want 2s", got)
	}
	resp = &http.Response{Header: http.Header{"Retry-After": []string{"120"}}}
	if got := RetryAfterDuration(resp, time.Second, 10*time.Second); got != 10*time.Second {
		t.Fatalf("cap: got %v, want 10s", got)
	}
}
