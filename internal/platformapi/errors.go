package platformapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/mawulip/pronostix/internal/usecase"
)

const genericServerError = "Le serveur a rencontré une erreur. Veuillez réessayer plus tard."

// ErrTooManyAttempts signals the client-side login cooldown. It is a UX
// nicety with zero security value: the server never sees the throttled
// attempts.
var ErrTooManyAttempts = errors.New("too many failed login attempts")

// APIError carries a non-2xx backend response through to the caller
// unchanged: the server's own message when a body was present, a generic
// fallback otherwise.
type APIError struct {
	StatusCode int
	Message    string
	Payload    []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("platform api: status %d: %s", e.StatusCode, e.Message)
}

// Is lets callers match the taxonomy sentinels without inspecting status
// codes themselves.
func (e *APIError) Is(target error) bool {
	switch {
	case target == usecase.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case target == usecase.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case target == usecase.ErrInvalidInput:
		return e.StatusCode == http.StatusBadRequest
	default:
		return false
	}
}

func newAPIError(status int, payload []byte) error {
	return &APIError{
		StatusCode: status,
		Message:    extractServerMessage(payload),
		Payload:    payload,
	}
}

// extractServerMessage pulls a human-readable message out of the backend's
// error body. The backend emits either {"detail": "..."} or a field→messages
// map; anything unrecognized falls back to the generic text.
func extractServerMessage(payload []byte) string {
	if len(payload) == 0 {
		return genericServerError
	}

	var decoded map[string]any
	if err := sonic.Unmarshal(payload, &decoded); err != nil {
		return genericServerError
	}

	if detail, ok := decoded["detail"].(string); ok && strings.TrimSpace(detail) != "" {
		return detail
	}
	if msg, ok := decoded["error"].(string); ok && strings.TrimSpace(msg) != "" {
		return msg
	}

	for _, value := range decoded {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return v
			}
		case []any:
			if len(v) > 0 {
				if s, ok := v[0].(string); ok && strings.TrimSpace(s) != "" {
					return s
				}
			}
		}
	}

	return genericServerError
}
