package webui

import (
	"encoding/json"
	"net/http"
)

// maxFormBytes caps the connection form body
const maxFormBytes = 16 << 10

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if !s.page.Snapshot().Mounted {
		s.page.Mount(r.Context())
	}
	s.render(w, "connection.html", s.newView(r, "connection"))
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	ssid := r.PostFormValue("ssid")
	password := r.PostFormValue("password")
	s.page.SetSSID(ssid)
	s.page.SetPassword(password)

	s.page.Save(r.Context())
	// The page is shared by every browser; a typed password never outlives
	// the request that carried it.
	s.page.ForgetPassword()
	s.render(w, "connection.html", s.newView(r, "connection"))
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.page.Clear(r.Context())
	s.render(w, "connection.html", s.newView(r, "connection"))
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	view := s.newView(r, "logs")
	view.Events = s.page.History()
	s.render(w, "logs.html", view)
}
