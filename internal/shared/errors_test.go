package shared

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestNewAPIError(t *testing.T) {
	err := NewAPIError("test_code", "test message")
	if err.Code != "test_code" {
		t.Errorf("expected code 'test_code', got '%s'", err.Code)
	}
	if err.Message != "test message" {
		t.Errorf("expected message 'test message', got '%s'", err.Message)
	}
	if err.Details != nil {
		t.Errorf("expected nil details, got %v", err.Details)
	}
}

func TestAPIError_WithDetails(t *testing.T) {
	err := NewAPIError("invalid_input", "threshold outside [0,1]").WithDetails(map[string]float64{"threshold": 1.5})

	d, ok := err.Details.(map[string]float64)
	if !ok || d["threshold"] != 1.5 {
		t.Errorf("unexpected details %v", err.Details)
	}
}

func TestAPIError_ToHTTP(t *testing.T) {
	apiErr := NewAPIError("code", "message")
	httpErr := apiErr.ToHTTP(http.StatusBadRequest)

	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, httpErr.Code)
	}
	msg, ok := httpErr.Message.(*APIError)
	if !ok {
		t.Fatal("expected message to be *APIError")
	}
	if msg.Code != "code" {
		t.Errorf("expected code 'code', got '%s'", msg.Code)
	}
}

func TestStatusHelpers(t *testing.T) {
	tests := []struct {
		name   string
		err    *echo.HTTPError
		status int
	}{
		{"bad request", BadRequest("invalid_handle", "handle must be an integer"), http.StatusBadRequest},
		{"not found", NotFound("no_capture", "no capture available"), http.StatusNotFound},
		{"conflict", Conflict("busy", "analysis in flight"), http.StatusConflict},
		{"internal", InternalError("history_failed", "failed to list history"), http.StatusInternalServerError},
		{"unavailable", ServiceUnavailable("provider_down", "provider unreachable"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Message.(*APIError)
			assertHTTPError(t, tt.err, tt.status, msg.Code, msg.Message)
		})
	}
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid input", fmt.Errorf("persona is required: %w", ErrInvalidInput), http.StatusBadRequest, "invalid_input"},
		{"not found", fmt.Errorf("no capture: %w", ErrNotFound), http.StatusNotFound, "not_found"},
		{"busy", ErrBusy, http.StatusConflict, "busy"},
		{"closed", ErrClosed, http.StatusServiceUnavailable, "shutting_down"},
		{"conflict", ErrConflict, http.StatusConflict, "conflict"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := FromError(tt.err)
			assertHTTPError(t, httpErr, tt.status, tt.code, tt.err.Error())
		})
	}
}

func assertHTTPError(t *testing.T, err *echo.HTTPError, expectedStatus int, expectedCode, expectedMessage string) {
	t.Helper()
	if err.Code != expectedStatus {
		t.Errorf("expected status %d, got %d", expectedStatus, err.Code)
	}
	apiErr, ok := err.Message.(*APIError)
	if !ok {
		t.Fatal("expected message to be *APIError")
	}
	if apiErr.Code != expectedCode {
		t.Errorf("expected code '%s', got '%s'", expectedCode, apiErr.Code)
	}
	if apiErr.Message != expectedMessage {
		t.Errorf("expected message '%s', got '%s'", expectedMessage, apiErr.Message)
	}
}
