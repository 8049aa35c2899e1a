package catalogclient

import "fmt"

// APIError ответ сервиса с кодом вне 2xx
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
	Details    string `json:"details"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("catalog api returned status %d: %s (%s)", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("catalog api returned status %d: %s", e.StatusCode, e.Message)
}
