package wificonfig

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// Error types for robot WiFi API operations

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (host unreachable, reset, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeHTTP indicates the robot API answered with a non-2xx status
	ErrTypeHTTP
	// ErrTypeParse indicates a response body that could not be decoded
	ErrTypeParse
	// ErrTypeValidation indicates credentials rejected before any request was made
	ErrTypeValidation
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates nothing is listening on the API port
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeUnknown indicates an unknown or unexpected error
	ErrTypeUnknown
)

// FallbackSaveMessage is shown when a failed save carries no usable message.
const FallbackSaveMessage = "Failed to save"

// MessageSSIDRequired is the validation message for an empty SSID.
const MessageSSIDRequired = "SSID is required"

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// ConfigError represents an error that occurred while talking to the robot API
type ConfigError struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Body       string    // Response body text for HTTP errors, verbatim
	Err        error     // Underlying error (if any)
	Host       string    // API host (for troubleshooting output)
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes a transport error and returns a typed ConfigError
func ClassifyNetworkError(err error, host string) *ConfigError {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) {
		return &ConfigError{
			Type:    ErrTypeTimeout,
			Message: "request timed out",
			Err:     err,
			Host:    host,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &ConfigError{
			Type:    ErrTypeDNS,
			Message: fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:     err,
			Host:    host,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return &ConfigError{
				Type:    ErrTypeConnectionRefused,
				Message: "robot API refused connection",
				Err:     err,
				Host:    host,
			}
		}
		if errors.Is(opErr.Err, syscall.EHOSTUNREACH) {
			return &ConfigError{
				Type:    ErrTypeNetwork,
				Message: "host unreachable",
				Err:     err,
				Host:    host,
			}
		}
		if errors.Is(opErr.Err, syscall.ENETUNREACH) {
			return &ConfigError{
				Type:    ErrTypeNetwork,
				Message: "network unreachable",
				Err:     err,
				Host:    host,
			}
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return ClassifyNetworkError(urlErr.Err, host)
	}

	return &ConfigError{
		Type:    ErrTypeNetwork,
		Message: "network error occurred",
		Err:     err,
		Host:    host,
	}
}

// NewNetworkError creates a network-level error with automatic classification.
// The classified message is kept; message is prepended as context.
func NewNetworkError(message string, err error, host string) *ConfigError {
	classified := ClassifyNetworkError(err, host)
	if classified == nil {
		return &ConfigError{Type: ErrTypeNetwork, Message: message, Host: host}
	}
	classified.Message = message + ": " + classified.Message
	return classified
}

// NewHTTPError creates an HTTP-level error. body is kept verbatim so it can be
// shown to the operator.
func NewHTTPError(statusCode int, body string) *ConfigError {
	msg := fmt.Sprintf("robot API returned %d %s", statusCode, http.StatusText(statusCode))
	return &ConfigError{
		Type:       ErrTypeHTTP,
		Message:    msg,
		StatusCode: statusCode,
		Body:       body,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *ConfigError {
	return &ConfigError{
		Type:    ErrTypeParse,
		Message: message,
		Err:     err,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *ConfigError {
	return &ConfigError{
		Type:    ErrTypeValidation,
		Message: message,
	}
}

func asConfigError(err error) (*ConfigError, bool) {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr, true
	}
	return nil, false
}

// IsNetworkError checks if an error is a transport error (timeout, refused, DNS included)
func IsNetworkError(err error) bool {
	if cfgErr, ok := asConfigError(err); ok {
		return cfgErr.Type == ErrTypeNetwork ||
			cfgErr.Type == ErrTypeTimeout ||
			cfgErr.Type == ErrTypeConnectionRefused ||
			cfgErr.Type == ErrTypeDNS
	}
	return false
}

// IsHTTPError checks if an error is an HTTP error
func IsHTTPError(err error) bool {
	if cfgErr, ok := asConfigError(err); ok {
		return cfgErr.Type == ErrTypeHTTP
	}
	return false
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	if cfgErr, ok := asConfigError(err); ok {
		return cfgErr.Type == ErrTypeParse
	}
	return false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	if cfgErr, ok := asConfigError(err); ok {
		return cfgErr.Type == ErrTypeValidation
	}
	return false
}

// SaveMessage returns the message shown to the operator after a failed save.
//
// The robot API's response text wins when present. Other ConfigErrors show
// their message without the type prefix, foreign errors show their text, and
// an error with no text at all falls back to FallbackSaveMessage.
func SaveMessage(err error) string {
	if err == nil {
		return ""
	}

	if cfgErr, ok := asConfigError(err); ok {
		switch cfgErr.Type {
		case ErrTypeHTTP:
			if cfgErr.Body != "" {
				return cfgErr.Body
			}
			return FallbackSaveMessage
		default:
			if cfgErr.Message != "" {
				return cfgErr.Message
			}
			return FallbackSaveMessage
		}
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return FallbackSaveMessage
}

// GetTroubleshootingHint returns operator-facing advice for an error
func GetTroubleshootingHint(err error) string {
	cfgErr, ok := asConfigError(err)
	if !ok {
		return "An unexpected error occurred. Please try again."
	}

	switch cfgErr.Type {
	case ErrTypeTimeout:
		return strings.Join([]string{
			"The robot did not respond in time.",
			"Troubleshooting:",
			"  • Check that the robot is powered on",
			"  • Verify you're connected to the robot's hotspot or network",
			"  • Try increasing --timeout",
		}, "\n")

	case ErrTypeConnectionRefused:
		return strings.Join([]string{
			"The robot refused the connection.",
			"Troubleshooting:",
			"  • The robot API service may not be running yet - wait and retry",
			"  • Verify the API URL and port (see 'robot-console config init')",
		}, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Could not resolve the robot hostname.",
			"Troubleshooting:",
			"  • Use the robot's IP address instead (hotspot gateway is 10.42.0.1)",
			"  • Try 'robot-console scan' to discover robots via mDNS",
		}, "\n")

	case ErrTypeNetwork:
		hint := []string{"Network communication failed.", "Troubleshooting:",
			"  • Check your network connection",
			"  • Ensure you're connected to the robot's network",
		}
		if cfgErr.Host != "" {
			hint = append(hint, "  • Try pinging the robot: ping "+cfgErr.Host)
		}
		return strings.Join(hint, "\n")

	case ErrTypeHTTP:
		if cfgErr.StatusCode >= 500 {
			return strings.Join([]string{
				fmt.Sprintf("The robot API returned an error (HTTP %d).", cfgErr.StatusCode),
				"The mode switch on the robot may have failed.",
				"Troubleshooting:",
				"  • Check the robot API logs",
				"  • Retry the save",
			}, "\n")
		}
		return fmt.Sprintf("The robot API rejected the request (HTTP %d). Check the submitted values.", cfgErr.StatusCode)

	case ErrTypeParse:
		return "The robot API returned an unexpected response. The console and robot versions may not match."

	case ErrTypeValidation:
		return "The credentials are invalid. Check the error message for details."

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	cfgErr, ok := asConfigError(err)
	if !ok {
		return err.Error()
	}

	switch cfgErr.Type {
	case ErrTypeTimeout:
		return "Robot not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Robot API refused connection"
	case ErrTypeDNS:
		return "Cannot resolve robot hostname"
	case ErrTypeNetwork:
		return "Network error - check connection"
	case ErrTypeHTTP:
		if cfgErr.Body != "" {
			return cfgErr.Body
		}
		return fmt.Sprintf("Robot API error (HTTP %d)", cfgErr.StatusCode)
	case ErrTypeParse:
		return "Failed to parse robot API response"
	default:
		return cfgErr.Message
	}
}
