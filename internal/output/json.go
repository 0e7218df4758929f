package output

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"
)

// JSON writes data as indented JSON.
func JSON(w io.Writer, data any) error {
	b, err := sonic.ConfigStd.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	b = append(b, '\n')
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	return nil
}

// ErrorResponse is the JSON envelope for structured error output. The API
// server uses the same shape for its error bodies.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// JSONError writes a structured error as JSON.
func JSONError(w io.Writer, code, msg string, details map[string]any) {
	_ = JSON(w, ErrorResponse{Error: msg, Code: code, Details: details}) // best effort
}

// BatchResult reports the outcome of one operation of a multi-task command.
type BatchResult struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}
