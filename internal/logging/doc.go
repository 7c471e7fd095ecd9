// Package logging provides structured logging for the robot console.
//
// This package wraps a global zap logger with convenience functions for the
// few events the console cares about: calls to the robot API, requests served
// by the web UI, and save status transitions.
//
// # Silent by Default
//
// The console is an interactive tool, so logging is disabled unless a level is
// requested with --log-level or the ROBOT_CONSOLE_LOG_LEVEL environment
// variable:
//
//	ROBOT_CONSOLE_LOG_LEVEL=debug robot-console show
//
// The terminal UI owns the screen, so when a level is set it re-initializes
// the logger with InitializeWithOutput to write to tui.log in the state
// directory ($XDG_STATE_HOME/robot-console on Linux) instead of stderr.
//
// # Structured Logging
//
//	logging.Info("Serving web UI",
//	    zap.String("listen", ":8080"),
//	    zap.String("api_url", "http://10.42.0.1/api"),
//	)
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. Initialize and SetLogger
// are meant to be called once at startup.
package logging
