package wificonfig

import (
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"
	"testing"
)

type timeoutError struct{}

func (e *timeoutError) Error() string   { return "i/o timeout" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }

func TestClassifyNetworkError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{
			name: "timeout",
			err: &url.Error{Op: "Post", URL: "http://10.42.0.1/api/wifi", Err: &net.OpError{
				Op: "dial", Net: "tcp", Err: &timeoutError{},
			}},
			want: ErrTypeTimeout,
		},
		{
			name: "connection refused",
			err: &url.Error{Op: "Post", URL: "http://10.42.0.1/api/wifi", Err: &net.OpError{
				Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED,
			}},
			want: ErrTypeConnectionRefused,
		},
		{
			name: "dns",
			err:  &net.DNSError{Err: "no such host", Name: "robot-001.local", IsNotFound: true},
			want: ErrTypeDNS,
		},
		{
			name: "host unreachable",
			err:  &net.OpError{Op: "dial", Net: "tcp", Err: syscall.EHOSTUNREACH},
			want: ErrTypeNetwork,
		},
		{
			name: "generic",
			err:  errors.New("connection reset"),
			want: ErrTypeNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgErr := ClassifyNetworkError(tt.err, "10.42.0.1")
			if cfgErr == nil {
				t.Fatal("expected ConfigError, got nil")
			}
			if cfgErr.Type != tt.want {
				t.Errorf("Type = %v, want %v", cfgErr.Type, tt.want)
			}
			if !IsNetworkError(cfgErr) {
				t.Error("classified error should be a network error")
			}
		})
	}
}

func TestClassifyNetworkError_Nil(t *testing.T) {
	if ClassifyNetworkError(nil, "") != nil {
		t.Error("nil error should classify to nil")
	}
}

func TestConfigError_Unwrap(t *testing.T) {
	cause := syscall.ECONNREFUSED
	err := NewNetworkError("POST /wifi failed", &net.OpError{Op: "dial", Net: "tcp", Err: cause}, "10.42.0.1")

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the underlying syscall error")
	}
	if !strings.HasPrefix(err.Message, "POST /wifi failed") {
		t.Errorf("Message = %q, should keep caller context", err.Message)
	}
}

func TestSaveMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"http with body", NewHTTPError(500, "X"), "X"},
		{"http without body", NewHTTPError(500, ""), FallbackSaveMessage},
		{"validation", NewValidationError(MessageSSIDRequired), MessageSSIDRequired},
		{"network", &ConfigError{Type: ErrTypeTimeout, Message: "request timed out"}, "request timed out"},
		{"config error without message", &ConfigError{Type: ErrTypeNetwork}, FallbackSaveMessage},
		{"foreign error", errors.New("socket closed"), "socket closed"},
		{"foreign error without text", errors.New(""), FallbackSaveMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SaveMessage(tt.err); got != tt.want {
				t.Errorf("SaveMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSaveMessage_Wrapped(t *testing.T) {
	err := errors.Join(NewHTTPError(400, "ssid too long"))
	if got := SaveMessage(err); got != "ssid too long" {
		t.Errorf("SaveMessage() = %q, want wrapped body", got)
	}
}

func TestErrorType_String(t *testing.T) {
	if ErrTypeConnectionRefused.String() != "Connection Refused" {
		t.Errorf("String() = %s", ErrTypeConnectionRefused.String())
	}
	if ErrorType(99).String() != "ErrorType(99)" {
		t.Errorf("String() = %s", ErrorType(99).String())
	}
}

func TestGetTroubleshootingHint(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"timeout", &ConfigError{Type: ErrTypeTimeout}, "did not respond"},
		{"refused", &ConfigError{Type: ErrTypeConnectionRefused}, "refused"},
		{"dns", &ConfigError{Type: ErrTypeDNS}, "10.42.0.1"},
		{"network with host", &ConfigError{Type: ErrTypeNetwork, Host: "10.42.0.7"}, "ping 10.42.0.7"},
		{"server error", NewHTTPError(500, ""), "HTTP 500"},
		{"client error", NewHTTPError(422, ""), "HTTP 422"},
		{"foreign", errors.New("x"), "unexpected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint := GetTroubleshootingHint(tt.err)
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("hint %q should contain %q", hint, tt.contains)
			}
		})
	}
}

func TestGetShortErrorMessage(t *testing.T) {
	if got := GetShortErrorMessage(NewHTTPError(500, "busy")); got != "busy" {
		t.Errorf("got %q, want body", got)
	}
	if got := GetShortErrorMessage(NewHTTPError(503, "")); got != "Robot API error (HTTP 503)" {
		t.Errorf("got %q", got)
	}
	if got := GetShortErrorMessage(errors.New("plain")); got != "plain" {
		t.Errorf("got %q", got)
	}
}
