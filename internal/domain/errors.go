package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("vayada: not found")
	ErrUnauthorized = errors.New("vayada: unauthorized")
	ErrForbidden    = errors.New("vayada: forbidden")
	ErrValidation   = errors.New("vayada: validation failed")
	ErrNetwork      = errors.New("vayada: network unreachable")
	ErrNotAdmin     = errors.New("Access denied. Admin account required.")
	ErrNoSession    = errors.New("not logged in")
)

// APIError is every non-2xx backend response.
type APIError struct {
	Status  int
	Body    map[string]any // parsed JSON object, nil when the body was not JSON
	Raw     string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrValidation:
		return e.Status == http.StatusUnprocessableEntity
	}
	return false
}

type FieldError struct {
	Field   string
	Message string
}

// FieldErrors extracts {"detail":[{"loc":[...,"field"],"msg":"..."}]}.
func (e *APIError) FieldErrors() []FieldError {
	if e.Body == nil {
		return nil
	}
	items, ok := e.Body["detail"].([]any)
	if !ok {
		return nil
	}
	out := make([]FieldError, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		fe := FieldError{}
		if msg, ok := m["msg"].(string); ok {
			fe.Message = msg
		}
		if loc, ok := m["loc"].([]any); ok && len(loc) > 0 {
			fe.Field = fmt.Sprint(loc[len(loc)-1])
		}
		out = append(out, fe)
	}
	return out
}

// Detail is the body's "detail" when it is a plain string.
func (e *APIError) Detail() string {
	if e.Body == nil {
		return ""
	}
	s, _ := e.Body["detail"].(string)
	return s
}

// NetworkError means no HTTP response was received at all.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return "backend unavailable: " + e.Op + ": " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}
