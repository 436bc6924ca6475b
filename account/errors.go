package account

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gravitational/trace"
	"github.com/tidwall/gjson"
)

const (
	msgUnreachable       = "unable to reach the server"
	msgMalformedResponse = "malformed response from server"
)

// ResponseError is a failed API call. StatusCode is zero when no response
// was received at all.
type ResponseError struct {
	StatusCode int
	Message    string
	// Err is the transport error, if any.
	Err error
}

func (e *ResponseError) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		return e.Message
	}
	return fmt.Sprintf("http error code=%v, message=%q", e.StatusCode, e.Message)
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}

// AsResponseError extracts a *ResponseError from err, looking through trace wrappers.
func AsResponseError(err error) (*ResponseError, bool) {
	var respErr *ResponseError
	if errors.As(trace.Unwrap(err), &respErr) {
		return respErr, true
	}
	return nil, false
}

// FieldErrors maps a form field to the message describing what is wrong with it.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString("invalid registration form: ")
	for i, field := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", field, f[field])
	}
	return b.String()
}

// AsFieldErrors extracts FieldErrors from err, looking through trace wrappers.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fieldErrs FieldErrors
	if errors.As(trace.Unwrap(err), &fieldErrs) {
		return fieldErrs, true
	}
	return nil, false
}

// parseErrorMessage returns the "message" of an error body. Validation
// failures may carry a list of messages, which are joined.
func parseErrorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}

	message := gjson.GetBytes(body, "message")
	switch {
	case message.IsArray():
		var parts []string
		for _, item := range message.Array() {
			if s := strings.TrimSpace(item.String()); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	case message.Type == gjson.String:
		return strings.TrimSpace(message.String())
	}

	if e := gjson.GetBytes(body, "error"); e.Type == gjson.String {
		return strings.TrimSpace(e.String())
	}
	return ""
}
