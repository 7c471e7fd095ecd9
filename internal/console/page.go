package console

import (
	"context"
	"sync"

	"github.com/polyflowrobotics/robot-console/internal/logging"
	"github.com/polyflowrobotics/robot-console/internal/status"
	"github.com/polyflowrobotics/robot-console/internal/wificonfig"
	"go.uber.org/zap"
)

const (
	// LabelSave is the save button label when idle
	LabelSave = "Save configuration"
	// LabelSaving is the save button label while a request is in flight
	LabelSaving = "Saving..."
)

// API is the robot API as used by the page.
// *wificonfig.Client satisfies it.
type API interface {
	status.Backend
	FetchStatus(ctx context.Context) *wificonfig.Status
}

// Snapshot is a consistent copy of everything a view needs to render.
type Snapshot struct {
	Form         FormState
	Status       status.SaveStatus
	Remote       *wificonfig.Status // nil until mounted or when the read failed
	Mounted      bool
	SaveDisabled bool
	SaveLabel    string
}

// Page is the connection settings page. It is safe for concurrent use.
type Page struct {
	api        API
	controller *status.Controller
	history    *history

	mu      sync.Mutex
	form    FormState
	remote  *wificonfig.Status
	mounted bool
	closed  bool
}

// NewPage creates a page backed by api
func NewPage(api API) *Page {
	p := &Page{
		api:        api,
		controller: status.NewController(api),
		history:    newHistory(DefaultHistorySize),
	}
	p.controller.Subscribe(p.history.record)
	return p
}

// Mount reads the current WiFi configuration and seeds the form.
// Read failures leave the form as it was. A result that arrives after
// Close is dropped.
func (p *Page) Mount(ctx context.Context) {
	st := p.api.FetchStatus(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		logging.Debug("Dropping WiFi status for closed page")
		return
	}
	p.remote = st
	p.mounted = true
	p.form.Seed(st)
	logging.Debug("Connection page mounted",
		zap.Bool("configured", st != nil && st.Configured),
	)
}

// Form returns a copy of the form state
func (p *Page) Form() FormState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form
}

// SetSSID updates the SSID field
func (p *Page) SetSSID(ssid string) {
	p.Update(func(f *FormState) { f.SSID = ssid })
}

// SetPassword updates the password field
func (p *Page) SetPassword(password string) {
	p.Update(func(f *FormState) { f.Password = password })
}

// Update applies fn to the form under the page lock
func (p *Page) Update(fn func(*FormState)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.form)
}

// Save submits the current form through the status controller.
// It is a no-op returning the current status while a save is in flight.
// After a successful save that sent a password, the form holds the
// placeholder instead of the typed secret.
func (p *Page) Save(ctx context.Context) status.SaveStatus {
	creds := p.Form().Credentials()
	st := p.controller.Save(ctx, creds)
	if st.State != status.StateSuccess {
		return st
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return st
	}
	if creds.Password != "" {
		p.form.StorePassword()
	}
	ssid := creds.SSID
	p.remote = &wificonfig.Status{
		Configured: true,
		SSID:       &ssid,
		PSKSet:     creds.Password != "" || (p.remote != nil && p.remote.PSKSet),
	}
	return st
}

// Clear asks the robot to forget its network. On success the form and the
// remote configuration are reset to the unconfigured state.
func (p *Page) Clear(ctx context.Context) status.SaveStatus {
	st := p.controller.Clear(ctx)
	if st.State != status.StateSuccess {
		return st
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return st
	}
	p.form.Reset()
	p.remote = &wificonfig.Status{Configured: false}
	return st
}

// ForgetPassword drops any typed password from the form
func (p *Page) ForgetPassword() {
	p.Update(func(f *FormState) { f.ForgetPassword() })
}

// Status returns the current save status
func (p *Page) Status() status.SaveStatus {
	return p.controller.Status()
}

// Subscribe registers a listener for save status transitions
func (p *Page) Subscribe(l status.Listener) {
	p.controller.Subscribe(l)
}

// History returns recent save transitions, newest first
func (p *Page) History() []Event {
	return p.history.recent()
}

// SaveDisabled reports whether the save action is disabled
func (p *Page) SaveDisabled() bool {
	return p.controller.Status().IsSaving()
}

// SaveLabel returns the save button label for the current status
func (p *Page) SaveLabel() string {
	return saveLabel(p.controller.Status())
}

// Snapshot returns a consistent view of the page
func (p *Page) Snapshot() Snapshot {
	st := p.controller.Status()

	p.mu.Lock()
	defer p.mu.Unlock()

	return Snapshot{
		Form:         p.form,
		Status:       st,
		Remote:       p.remote,
		Mounted:      p.mounted,
		SaveDisabled: st.IsSaving(),
		SaveLabel:    saveLabel(st),
	}
}

// Close tears the page down. Late responses to Mount or Save are discarded.
func (p *Page) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.controller.Close()
}

func saveLabel(st status.SaveStatus) string {
	if st.IsSaving() {
		return LabelSaving
	}
	return LabelSave
}
