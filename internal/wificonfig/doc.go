// Package wificonfig provides an HTTP client for the robot's WiFi configuration API.
//
// The robot API is reverse-proxied under a same-origin base path (/api). This
// package reads the current configuration, submits new credentials, and
// supports the clear and health endpoints of the robot API.
//
// # Endpoints
//
//   - GET  /api/wifi        → {"configured": bool, "ssid": string|null, "pskSet": bool}
//   - POST /api/wifi        ← {"ssid": string, "psk"?: string}
//   - POST /api/wifi/clear  forget the network, return to hotspot mode
//   - GET  /api/health      liveness of the robot API
//
// The stored password is never returned by the robot; Status only reports
// whether one is set.
//
// # Usage Example
//
//	client := wificonfig.NewClient("http://10.42.0.1/api")
//
//	// Seed a form; failures come back as nil ("not configured")
//	status := client.FetchStatus(ctx)
//
//	// Submit new credentials; an empty password is omitted from the body
//	err := client.Submit(ctx, wificonfig.Credentials{SSID: "Home", Password: "hunter22"})
//	if err != nil {
//	    fmt.Println(wificonfig.SaveMessage(err))
//	}
//
// # Error Handling
//
// All failures are returned as *ConfigError. Transport errors are classified
// (timeout, connection refused, DNS, unreachable); non-2xx responses keep the
// response body verbatim so it can be shown to the operator. No request is
// ever retried automatically.
package wificonfig
