package app

import (
	"errors"
	"net/http"
	"strings"

	"vayada_admin/internal/domain"
)

const (
	MsgSessionExpired = "Your session has expired. Please log in again."
	MsgSuspended      = "Your account has been suspended. Please contact support."
	MsgNotConfigured  = "Admin endpoints not yet configured. Please set up backend admin routes."
	MsgNetwork        = "Network error. Please check your connection and try again."
	MsgNotLoggedIn    = "You are not logged in. Run `vayada-admin login` first."
)

// ErrorMessage turns an error from a service call into the text shown to the
// operator. fallback is used when the error carries nothing presentable.
func ErrorMessage(err error, fallback string) string {
	return message(err, fallback, false)
}

// ListErrorMessage is ErrorMessage for collection fetches, where a 404 means
// the admin routes are missing rather than an empty result.
func ListErrorMessage(err error, fallback string) string {
	return message(err, fallback, true)
}

func message(err error, fallback string, collection bool) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, domain.ErrNotAdmin):
		return domain.ErrNotAdmin.Error()
	case errors.Is(err, domain.ErrNoSession):
		return MsgNotLoggedIn
	case errors.Is(err, domain.ErrNetwork):
		return MsgNetwork
	}

	var ae *domain.APIError
	if !errors.As(err, &ae) {
		return fallback
	}
	switch ae.Status {
	case http.StatusUnauthorized:
		return MsgSessionExpired
	case http.StatusForbidden:
		if d := ae.Detail(); d != "" {
			return d
		}
		return MsgSuspended
	case http.StatusNotFound:
		if collection {
			return MsgNotConfigured
		}
	case http.StatusUnprocessableEntity:
		if fes := ae.FieldErrors(); len(fes) > 0 {
			parts := make([]string, 0, len(fes))
			for _, fe := range fes {
				if fe.Field == "" {
					parts = append(parts, fe.Message)
					continue
				}
				parts = append(parts, fe.Field+": "+fe.Message)
			}
			return strings.Join(parts, ", ")
		}
	}
	if bodyMessage(ae) {
		return ae.Message
	}
	return fallback
}

// bodyMessage reports whether Message came from the response rather than
// the status-text default.
func bodyMessage(ae *domain.APIError) bool {
	return ae.Message != "" && ae.Message != http.StatusText(ae.Status)
}

// FieldErrors maps a 422 to per-field messages. Errors without a field land
// under "".
func FieldErrors(err error) map[string]string {
	var ae *domain.APIError
	if !errors.As(err, &ae) || ae.Status != http.StatusUnprocessableEntity {
		return nil
	}
	out := map[string]string{}
	for _, fe := range ae.FieldErrors() {
		if prev, ok := out[fe.Field]; ok {
			out[fe.Field] = prev + "; " + fe.Message
			continue
		}
		out[fe.Field] = fe.Message
	}
	return out
}
