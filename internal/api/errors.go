// ABOUTME: Classified error type for the tournament service transport
// ABOUTME: Maps HTTP status codes to a fixed taxonomy consumed by the whole client

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the failure classification every transport error carries.
type Kind int

const (
	KindUnknown    Kind = iota
	KindNetwork         // no response received, timeout included
	KindAuth            // 401
	KindPermission      // 403
	KindNotFound        // 404
	KindValidation      // 422, may carry field-level messages
	KindServer          // 5xx
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindPermission:
		return "permission"
	case KindNotFound:
		return "not-found"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is the classified failure returned by the transport. Fields is only
// populated for validation errors that carried per-field messages.
type Error struct {
	Kind    Kind
	Status  int // 0 when no response was received
	Message string
	Fields  map[string][]string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsKind reports whether err is a transport error of the given kind.
func IsKind(err error, k Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == k
}

// classify maps an HTTP status code to an error kind.
func classify(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuth
	case status == http.StatusForbidden:
		return KindPermission
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// userMessage is the default notification text per kind, used when the server
// did not provide a message of its own.
func userMessage(k Kind) string {
	switch k {
	case KindNetwork:
		return "Cannot reach the server. Check your connection and try again."
	case KindAuth:
		return "Your session has expired. Please log in again."
	case KindPermission:
		return "You do not have permission to perform this action."
	case KindNotFound:
		return "The requested resource was not found."
	case KindValidation:
		return "The submitted data is invalid. Please review and retry."
	case KindServer:
		return "The server encountered an error. Please try again later."
	default:
		return "An unexpected error occurred. Please try again."
	}
}
