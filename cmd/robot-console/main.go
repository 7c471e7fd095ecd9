// Robot-console configures the WiFi connection of a Polyflow robot.
//
// It talks to the robot API (GET/POST /api/wifi) and offers three ways in:
// an interactive terminal UI, a browser UI served by "robot-console serve",
// and direct commands for scripting.
//
// Usage:
//
//	robot-console [command] [flags]
//
// Running without arguments launches the terminal UI against the robot at
// the hotspot gateway (http://10.42.0.1/api).
// See 'robot-console --help' for available commands.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdin).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
