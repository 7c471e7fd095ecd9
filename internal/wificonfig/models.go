package wificonfig

import (
	"fmt"
)

// Status represents the robot's current WiFi configuration as returned by GET /wifi.
//
// The password itself is never returned by the robot API, only whether one is set.
type Status struct {
	Configured bool    `json:"configured"`
	SSID       *string `json:"ssid"` // null when no network is configured
	PSKSet     bool    `json:"pskSet"`
}

// Credentials are the values the operator submits.
// Password is optional; an empty password is sent as absent.
type Credentials struct {
	SSID     string
	Password string
}

// wifiRequest is the JSON body of POST /wifi.
type wifiRequest struct {
	SSID string  `json:"ssid"`
	PSK  *string `json:"psk,omitempty"`
}

// newWifiRequest converts credentials to the wire body, dropping an empty password
// so the robot can tell "leave unchanged" from "clear password".
func newWifiRequest(creds Credentials) wifiRequest {
	req := wifiRequest{SSID: creds.SSID}
	if creds.Password != "" {
		psk := creds.Password
		req.PSK = &psk
	}
	return req
}

// SSIDValue returns the configured SSID, or "" when absent.
func (s *Status) SSIDValue() string {
	if s == nil || s.SSID == nil {
		return ""
	}
	return *s.SSID
}

// String returns a human-readable summary of the WiFi status.
func (s *Status) String() string {
	if s == nil || !s.Configured {
		return "WiFi: not configured (hotspot mode)"
	}
	password := "not set"
	if s.PSKSet {
		password = "set"
	}
	return fmt.Sprintf("WiFi: %s (password %s)", s.SSIDValue(), password)
}
