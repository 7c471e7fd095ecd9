// Package console holds the state behind the connection settings page.
//
// FormState is the editable view state: SSID, password and the sidebar flag.
// Page ties a FormState to a wificonfig client and a status.Controller and
// is what both the terminal UI and the web UI render.
//
// On Mount the page reads the robot's current WiFi configuration and seeds
// the form. A failed read is not an error: the form simply stays empty, as
// on a robot that was never configured. When the robot reports a stored
// password the password field shows PasswordPlaceholder instead; the real
// password is never available to the console.
//
//	page := console.NewPage(wificonfig.NewClient(apiURL))
//	page.Mount(ctx)
//	page.SetSSID("Home")
//	st := page.Save(ctx)
//	fmt.Println(st.Message)
package console
