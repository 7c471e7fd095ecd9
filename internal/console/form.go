package console

import (
	"github.com/polyflowrobotics/robot-console/internal/wificonfig"
)

// PasswordPlaceholder stands in for a password the robot has stored but
// never returns.
const PasswordPlaceholder = "********"

// FormState is the editable state of the connection form.
type FormState struct {
	SSID        string
	Password    string
	SidebarOpen bool

	// maskedPSK is set when Password was seeded with the placeholder
	maskedPSK bool
}

// Seed fills the form from the robot's reported configuration.
// A nil status or one with Configured false leaves the form untouched.
func (f *FormState) Seed(st *wificonfig.Status) {
	if st == nil || !st.Configured {
		return
	}
	f.SSID = st.SSIDValue()
	if st.PSKSet {
		f.Password = PasswordPlaceholder
		f.maskedPSK = true
	} else {
		f.Password = ""
		f.maskedPSK = false
	}
}

// PasswordMasked reports whether the password field still holds the
// untouched placeholder.
func (f FormState) PasswordMasked() bool {
	return f.maskedPSK && f.Password == PasswordPlaceholder
}

// Credentials returns what a save submits. An untouched placeholder is sent
// as no password, which leaves the stored one unchanged.
func (f FormState) Credentials() wificonfig.Credentials {
	creds := wificonfig.Credentials{SSID: f.SSID, Password: f.Password}
	if f.PasswordMasked() {
		creds.Password = ""
	}
	return creds
}

// DisplayPassword is the password value a view may render: the placeholder
// while the stored password is untouched, otherwise nothing.
func (f FormState) DisplayPassword() string {
	if f.PasswordMasked() {
		return PasswordPlaceholder
	}
	return ""
}

// StorePassword marks the robot as holding a password the form no longer
// knows, after a save that sent one.
func (f *FormState) StorePassword() {
	f.Password = PasswordPlaceholder
	f.maskedPSK = true
}

// ForgetPassword drops a typed password, falling back to the placeholder
// when the robot still has one stored.
func (f *FormState) ForgetPassword() {
	if f.maskedPSK {
		f.Password = PasswordPlaceholder
		return
	}
	f.Password = ""
}

// Reset empties the form after the robot forgot its network. The sidebar
// flag is view state and is kept.
func (f *FormState) Reset() {
	f.SSID = ""
	f.Password = ""
	f.maskedPSK = false
}

// ToggleSidebar flips the sidebar overlay
func (f *FormState) ToggleSidebar() { f.SidebarOpen = !f.SidebarOpen }

// OpenSidebar shows the sidebar overlay
func (f *FormState) OpenSidebar() { f.SidebarOpen = true }

// CloseSidebar hides the sidebar overlay
func (f *FormState) CloseSidebar() { f.SidebarOpen = false }
