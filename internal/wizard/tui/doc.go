// Package tui implements the terminal user interface of the robot console.
//
// It is a Bubble Tea program with two screens:
//   - Discovery: scan for robot-*.local over mDNS, or type an address
//   - Connection: the WiFi form, Bluetooth placeholder, status card and
//     save button, with a sidebar (ctrl+o) that also reaches the Logs page
//
// The connection screen is a view over a console.Page, the same state the
// web UI renders, so saves go through the status controller and are ignored
// while one is in flight.
//
// All screens wrap their content with RenderApplicationContainer for a
// shared header and context-sensitive help footer.
//
// # Usage
//
//	app := tui.NewAppModel(tui.Options{
//	    StartScreen: tui.ScreenConnection,
//	    APIURL:      "http://10.42.0.1/api",
//	    NewPage:     newPage,
//	})
//	program := tea.NewProgram(app, tea.WithAltScreen())
//	_, err := program.Run()
package tui
