// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package completion

import "fmt"

// Kind classifies the outcome of one Complete call.
type Kind int

const (
	// Success means the service answered 200 with parseable content.
	Success Kind = iota

	// RateLimited is a single 429 answer. It only appears in the
	// client's retry loop; a finished call reports RetriesExhausted instead.
	RateLimited

	// ServiceError is any other non-200 answer, or a transport failure
	// (StatusCode 0).
	ServiceError

	// ParseError is a 200 answer whose body has no usable content.
	ParseError

	// RetriesExhausted means every attempt was answered with 429.
	RetriesExhausted
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case RateLimited:
		return "rate_limited"
	case ServiceError:
		return "service_error"
	case ParseError:
		return "parse_error"
	case RetriesExhausted:
		return "retries_exhausted"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result is the outcome of one Complete call.
type Result struct {
	Kind Kind

	// Content is the generated text when Kind is Success.
	Content string

	// StatusCode is the HTTP status of the last response, 0 for transport errors.
	StatusCode int

	// Message is the service's error message, or the raw body when the
	// error body carries no message.
	Message string

	// Body is the raw response body of a ParseError.
	Body string

	// Attempts is the number of calls made.
	Attempts int
}

// OK reports whether the call produced content.
func (r Result) OK() bool { return r.Kind == Success }

// Text returns the content on success and a bracketed sentinel otherwise.
// The sentinel is what gets stored in artifacts in place of content.
func (r Result) Text() string {
	switch r.Kind {
	case Success:
		return r.Content
	case ParseError:
		return fmt.Sprintf("[[API_ERROR: %d - could not parse response: %s]]", r.StatusCode, r.Body)
	case RetriesExhausted, RateLimited:
		return "[[API_ERROR: max retries exceeded]]"
	default:
		return fmt.Sprintf("[[API_ERROR: %d - %s]]", r.StatusCode, r.Message)
	}
}

// Err returns nil on success and an *Error otherwise.
func (r Result) Err() error {
	if r.Kind == Success {
		return nil
	}
	return &Error{Result: r}
}

// Error wraps a failed Result for callers that propagate errors.
type Error struct {
	Result Result
}

func (e *Error) Error() string {
	return "completion " + e.Result.Kind.String() + ": " + e.Result.Text()
}
