// Package ui renders styled output for the robot-console CLI commands.
//
// Unlike the interactive TUI, these components print once and return:
//
//   - Header: command banner with ordered parameters
//   - Result: success, warning and failure boxes with troubleshooting tips
//   - RenderTransition: one line per save status change
//   - Confirm: typed confirmation before an operation that drops the
//     robot off the network
//
// Output goes through a Printer bound to a writer. Widths follow the
// terminal (via golang.org/x/term) and are clamped to a readable range.
//
//	p := ui.NewPrinter(cmd.OutOrStdout())
//	p.PrintHeader("WiFi Configuration", "robot-console set",
//	    ui.Param{Key: "Robot", Value: apiURL},
//	    ui.Param{Key: "SSID", Value: ssid})
//	ctrl.Subscribe(p.TransitionPrinter())
//
// Logging stays silent unless ROBOT_CONSOLE_LOG_LEVEL is set, so this
// output is the only thing on the terminal by default.
package ui
