// Package webui serves the connection settings page over HTTP.
//
// It is the browser counterpart of the terminal UI and renders the same
// console.Page: one shared form and one save status for every visitor. The
// server also reverse-proxies /api to the robot API so the page and the API
// share an origin, as they do on the robot itself.
//
// # Routes
//
//   - GET  /                  connection page (seeds the form on first view)
//   - POST /connection        save the submitted SSID and password
//   - POST /connection/clear  forget the robot's network
//   - GET  /logs              recent save transitions
//   - GET  /healthz           liveness of the console itself
//   - *    /api/...           proxied to the robot API, with CORS when
//     allowed origins are configured
//
// Adding ?menu=1 to a page opens the sidebar overlay for that view only;
// the sidebar is not part of the shared form.
//
// # Usage Example
//
//	srv, err := webui.New(&webui.Config{
//	    Listen: "127.0.0.1:8080",
//	    APIURL: "http://10.42.0.1/api",
//	})
//	if err != nil {
//	    return err
//	}
//	return srv.Start(ctx) // returns after SIGINT/SIGTERM or ctx is done
package webui
