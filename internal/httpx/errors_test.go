package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestParseErrorFromResponse(t *testing.T) {
	tests := []struct {
		name        string
		statusCode  int
		body        string
		wantMessage string
		match       func(error) bool
	}{
		{
			name:        "401 with message",
			statusCode:  401,
			body:        `{"message":"not authenticated"}`,
			wantMessage: "not authenticated",
			match:       IsAuthenticationError,
		},
		{
			name:        "401 bare JSON string",
			statusCode:  401,
			body:        `"Not authenticated."`,
			wantMessage: "Not authenticated.",
			match:       IsAuthenticationError,
		},
		{
			name:        "403 authorization",
			statusCode:  403,
			body:        `{"message":"no access to this endpoint"}`,
			wantMessage: "no access to this endpoint",
			match: func(err error) bool {
				var e *AuthorizationError
				return errors.As(err, &e)
			},
		},
		{
			name:        "404 not found",
			statusCode:  404,
			body:        `{"message":"There was no import for id 42."}`,
			wantMessage: "There was no import for id 42.",
			match:       IsNotFoundError,
		},
		{
			name:        "409 conflict",
			statusCode:  409,
			body:        `{"message":"definition name already in use"}`,
			wantMessage: "definition name already in use",
			match: func(err error) bool {
				var e *ConflictError
				return errors.As(err, &e)
			},
		},
		{
			name:        "400 with message",
			statusCode:  400,
			body:        `{"message":"invalid filter syntax"}`,
			wantMessage: "invalid filter syntax",
			match:       IsValidationError,
		},
		{
			name:        "400 with failures only",
			statusCode:  400,
			body:        `{"failures":[{"field":"C_EmailAddress","constraint":"Must be a valid email address."}]}`,
			wantMessage: "validation failed: C_EmailAddress: Must be a valid email address.",
			match:       IsValidationError,
		},
		{
			name:        "422 validation",
			statusCode:  422,
			body:        `{"message":"unprocessable"}`,
			wantMessage: "unprocessable",
			match:       IsValidationError,
		},
		{
			name:        "413 payload too large",
			statusCode:  413,
			body:        `{"message":"too many records"}`,
			wantMessage: "too many records",
			match: func(err error) bool {
				var e *PayloadTooLargeError
				return errors.As(err, &e)
			},
		},
		{
			name:        "500 server error",
			statusCode:  500,
			body:        `{"message":"internal error"}`,
			wantMessage: "internal error",
			match: func(err error) bool {
				var e *ServerError
				return errors.As(err, &e)
			},
		},
		{
			name:        "503 plain text body",
			statusCode:  503,
			body:        "Service Unavailable",
			wantMessage: "Service Unavailable",
			match: func(err error) bool {
				var e *ServerError
				return errors.As(err, &e)
			},
		},
		{
			name:        "400 with error key",
			statusCode:  400,
			body:        `{"error":"invalid_grant"}`,
			wantMessage: "invalid_grant",
			match:       IsValidationError,
		},
		{
			name:        "500 empty body",
			statusCode:  500,
			body:        "",
			wantMessage: "",
			match: func(err error) bool {
				var e *ServerError
				return errors.As(err, &e)
			},
		},
		{
			name:        "unmapped status stays a plain APIError",
			statusCode:  418,
			body:        `{"message":"teapot"}`,
			wantMessage: "teapot",
			match: func(err error) bool {
				var e *APIError
				return errors.As(err, &e)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ParseErrorFromResponse(tt.statusCode, []byte(tt.body), http.Header{})

			if !tt.match(err) {
				t.Errorf("Wrong error type: %T %v", err, err)
			}

			apiErr, ok := AsAPIError(err)
			if !ok {
				t.Fatalf("AsAPIError = false for %v", err)
			}
			if apiErr.StatusCode != tt.statusCode {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.statusCode)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
		})
	}
}

func TestParseErrorFromResponse_Failures(t *testing.T) {
	body := `{"failures":[
		{"field":"C_EmailAddress","constraint":"Must be a valid email address.","value":"nope"},
		{"field":"C_DataCard","constraint":"Required field is missing."}
	]}`

	err := ParseErrorFromResponse(400, []byte(body), http.Header{})

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("Expected ValidationError, got %T", err)
	}

	if len(valErr.Failures) != 2 {
		t.Fatalf("len(Failures) = %d, want 2", len(valErr.Failures))
	}
	if valErr.Failures[0].Field != "C_EmailAddress" {
		t.Errorf("Failures[0].Field = %q, want %q", valErr.Failures[0].Field, "C_EmailAddress")
	}
	if valErr.Failures[1].Constraint != "Required field is missing." {
		t.Errorf("Failures[1].Constraint = %q", valErr.Failures[1].Constraint)
	}
}

func TestParseErrorFromResponse_RateLimit(t *testing.T) {
	headers := http.Header{}
	headers.Set("Retry-After", "30")
	headers.Set("X-Rate-Limit-Limit", "2000")
	headers.Set("X-Rate-Limit-Remaining", "0")
	headers.Set("X-Rate-Limit-Reset", "1700000000")

	err := ParseErrorFromResponse(429, []byte(`{"message":"rate limit exceeded"}`), headers)

	var rateLimitErr *RateLimitError
	if !errors.As(err, &rateLimitErr) {
		t.Fatalf("Expected RateLimitError, got %T", err)
	}

	if rateLimitErr.RetryAfter != 30*time.Second {
		t.Errorf("RetryAfter = %v, want 30s", rateLimitErr.RetryAfter)
	}
	if rateLimitErr.GetRetryAfter() != 30 {
		t.Errorf("GetRetryAfter = %d, want 30", rateLimitErr.GetRetryAfter())
	}
	if rateLimitErr.Limit != 2000 {
		t.Errorf("Limit = %d, want 2000", rateLimitErr.Limit)
	}
	if rateLimitErr.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", rateLimitErr.Remaining)
	}
	if rateLimitErr.Reset.Unix() != 1700000000 {
		t.Errorf("Reset = %v, want unix 1700000000", rateLimitErr.Reset)
	}
}

func TestParseErrorFromResponse_TextTruncated(t *testing.T) {
	body := strings.Repeat("x", 1000)

	err := ParseErrorFromResponse(502, []byte(body), http.Header{})

	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("AsAPIError = false for %v", err)
	}
	if len(apiErr.Message) != maxTextMessage {
		t.Errorf("len(Message) = %d, want %d", len(apiErr.Message), maxTextMessage)
	}
	if string(apiErr.RawBody) != body {
		t.Error("RawBody should keep the full body")
	}
}

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{
			name: "with message",
			err:  &APIError{StatusCode: 404, Message: "There was no import for id 42."},
			want: "[404] There was no import for id 42.",
		},
		{
			name: "without message",
			err:  &APIError{StatusCode: 500},
			want: "[500] unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil",
			err:  nil,
			want: false,
		},
		{
			name: "server error",
			err:  ParseErrorFromResponse(500, nil, http.Header{}),
			want: true,
		},
		{
			name: "rate limit",
			err:  ParseErrorFromResponse(429, nil, http.Header{}),
			want: true,
		},
		{
			name: "validation error",
			err:  ParseErrorFromResponse(400, nil, http.Header{}),
			want: false,
		},
		{
			name: "not found",
			err:  ParseErrorFromResponse(404, nil, http.Header{}),
			want: false,
		},
		{
			name: "network error",
			err:  NewNetworkError(errors.New("connection refused")),
			want: true,
		},
		{
			name: "timeout error",
			err:  NewTimeoutError(30*time.Second, errors.New("deadline exceeded")),
			want: true,
		},
		{
			name: "circuit breaker open",
			err:  NewCircuitBreakerOpenError(),
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("something else"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNetworkError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := NewNetworkError(inner)

	if !errors.Is(err, inner) {
		t.Errorf("errors.Is should find the wrapped cause in %v", err)
	}
}

func TestAsAPIError_Wrapped(t *testing.T) {
	err := fmt.Errorf("add fields: %w", ParseErrorFromResponse(404, []byte(`{"message":"missing"}`), http.Header{}))

	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("AsAPIError = false for wrapped error %v", err)
	}
	if apiErr.StatusCode != 404 {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
}

func TestFailure_String(t *testing.T) {
	f := Failure{Field: "C_EmailAddress", Constraint: "Must be a valid email address."}
	if got := f.String(); got != "C_EmailAddress: Must be a valid email address." {
		t.Errorf("String() = %q", got)
	}

	bare := Failure{Constraint: "Required field is missing."}
	if got := bare.String(); got != "Required field is missing." {
		t.Errorf("String() = %q", got)
	}
}
