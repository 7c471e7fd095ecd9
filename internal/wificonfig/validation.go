package wificonfig

// ValidateSSID validates a WiFi SSID before submission.
// The only client-side rule is that it must be non-empty; length and charset
// are left to the robot API.
func ValidateSSID(ssid string) error {
	if ssid == "" {
		return NewValidationError(MessageSSIDRequired)
	}
	return nil
}

// ValidateCredentials validates credentials before submission.
func ValidateCredentials(creds Credentials) error {
	return ValidateSSID(creds.SSID)
}
