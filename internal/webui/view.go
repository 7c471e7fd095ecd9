package webui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/polyflowrobotics/robot-console/internal/console"
	"github.com/polyflowrobotics/robot-console/internal/logging"
	"github.com/polyflowrobotics/robot-console/internal/status"
	"github.com/polyflowrobotics/robot-console/internal/version"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"dict": dict,
}).ParseFS(templateFS, "templates/*.html"))

// dict builds a map from key/value pairs so templates can pass several
// values to a sub-template
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

// Branding shown in the sidebar
const (
	BrandTitle = "Polyflow Robot Console"
)

// navItem is a sidebar navigation entry
type navItem struct {
	Label  string
	Href   string
	Active bool
}

// sidebarParam opens the sidebar overlay for a single page view
const sidebarParam = "menu"

// pageView is the data every template renders
type pageView struct {
	Brand    string
	Version  string
	RobotID  string
	Nav      []navItem
	Snapshot console.Snapshot

	// Sidebar is per request; the shared page form does not carry it
	Sidebar       bool
	SidebarToggle string

	// Connection page
	Password      string
	StatusVariant string
	Events        []console.Event
}

func (s *Server) newView(r *http.Request, active string) pageView {
	snap := s.page.Snapshot()
	sidebar := r.URL.Query().Get(sidebarParam) == "1"

	variant := "success"
	if snap.Status.State == status.StateError {
		variant = "error"
	}

	return pageView{
		Brand:   BrandTitle,
		Version: version.Short(),
		RobotID: s.config.RobotID,
		Nav: []navItem{
			{Label: "Connection", Href: "/", Active: active == "connection"},
			{Label: "Logs", Href: "/logs", Active: active == "logs"},
		},
		Snapshot:      snap,
		Sidebar:       sidebar,
		SidebarToggle: sidebarToggle(active, sidebar),
		Password:      snap.Form.DisplayPassword(),
		StatusVariant: variant,
	}
}

// sidebarToggle is the link that flips the sidebar on the active page
func sidebarToggle(active string, open bool) string {
	path := "/"
	if active == "logs" {
		path = "/logs"
	}
	if open {
		return path
	}
	return path + "?" + url.Values{sidebarParam: {"1"}}.Encode()
}

func (s *Server) render(w http.ResponseWriter, name string, view pageView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := templates.ExecuteTemplate(w, name, view); err != nil {
		logging.Error("Failed to render page", zap.String("template", name), zap.Error(err))
	}
}
