// Package status tracks the lifecycle of a WiFi save attempt.
//
// A Controller moves through idle → saving → success or error and carries the
// message shown to the operator:
//
//   - empty SSID: error, "SSID is required", no request is made
//   - robot accepted: success, "Saved. Switching modes..."
//   - robot rejected: error, the response text verbatim
//   - transport failure: error, the failure message or "Failed to save"
//
// Save is ignored while a request is in flight, which is what disables the
// save button in both the terminal and web UIs.
package status
