package console

import (
	"testing"

	"github.com/polyflowrobotics/robot-console/internal/wificonfig"
)

func strPtr(s string) *string { return &s }

func TestFormState_Seed(t *testing.T) {
	tests := []struct {
		name         string
		status       *wificonfig.Status
		wantSSID     string
		wantPassword string
	}{
		{
			name:         "configured with password",
			status:       &wificonfig.Status{Configured: true, SSID: strPtr("Home"), PSKSet: true},
			wantSSID:     "Home",
			wantPassword: "********",
		},
		{
			name:         "configured open network",
			status:       &wificonfig.Status{Configured: true, SSID: strPtr("Cafe")},
			wantSSID:     "Cafe",
			wantPassword: "",
		},
		{
			name:         "configured without ssid",
			status:       &wificonfig.Status{Configured: true, PSKSet: true},
			wantSSID:     "",
			wantPassword: "********",
		},
		{
			name:   "not configured",
			status: &wificonfig.Status{Configured: false, SSID: strPtr("Stale"), PSKSet: true},
		},
		{
			name:   "fetch failed",
			status: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FormState
			f.Seed(tt.status)

			if f.SSID != tt.wantSSID {
				t.Errorf("SSID = %q, want %q", f.SSID, tt.wantSSID)
			}
			if f.Password != tt.wantPassword {
				t.Errorf("Password = %q, want %q", f.Password, tt.wantPassword)
			}
		})
	}
}

func TestFormState_SeedLeavesEditsWhenNotConfigured(t *testing.T) {
	f := FormState{SSID: "typed", Password: "secret"}
	f.Seed(&wificonfig.Status{Configured: false})

	if f.SSID != "typed" || f.Password != "secret" {
		t.Errorf("form = %+v, want untouched", f)
	}
}

func TestFormState_Credentials(t *testing.T) {
	t.Run("untouched placeholder is omitted", func(t *testing.T) {
		var f FormState
		f.Seed(&wificonfig.Status{Configured: true, SSID: strPtr("Home"), PSKSet: true})

		creds := f.Credentials()
		if creds.SSID != "Home" {
			t.Errorf("SSID = %q, want %q", creds.SSID, "Home")
		}
		if creds.Password != "" {
			t.Errorf("Password = %q, want empty", creds.Password)
		}
		if !f.PasswordMasked() {
			t.Error("PasswordMasked() = false, want true")
		}
	})

	t.Run("edited password is sent", func(t *testing.T) {
		var f FormState
		f.Seed(&wificonfig.Status{Configured: true, SSID: strPtr("Home"), PSKSet: true})
		f.Password = "newsecret"

		if got := f.Credentials().Password; got != "newsecret" {
			t.Errorf("Password = %q, want %q", got, "newsecret")
		}
		if f.PasswordMasked() {
			t.Error("PasswordMasked() = true after edit")
		}
	})

	t.Run("typed asterisks without a stored password are sent", func(t *testing.T) {
		f := FormState{SSID: "Home", Password: PasswordPlaceholder}

		if got := f.Credentials().Password; got != PasswordPlaceholder {
			t.Errorf("Password = %q, want %q", got, PasswordPlaceholder)
		}
	})
}

func TestFormState_DisplayPassword(t *testing.T) {
	var f FormState
	f.Seed(&wificonfig.Status{Configured: true, SSID: strPtr("Home"), PSKSet: true})

	if got := f.DisplayPassword(); got != PasswordPlaceholder {
		t.Errorf("seeded DisplayPassword() = %q, want placeholder", got)
	}

	f.Password = "hunter22"
	if got := f.DisplayPassword(); got != "" {
		t.Errorf("typed DisplayPassword() = %q, want empty", got)
	}

	f.ForgetPassword()
	if f.Password != PasswordPlaceholder || !f.PasswordMasked() {
		t.Errorf("ForgetPassword with stored password: Password = %q, want placeholder", f.Password)
	}

	f.Reset()
	f.Password = "hunter22"
	f.ForgetPassword()
	if f.Password != "" {
		t.Errorf("ForgetPassword without stored password: Password = %q, want empty", f.Password)
	}

	f.StorePassword()
	if !f.PasswordMasked() {
		t.Error("StorePassword: PasswordMasked() = false")
	}
}

func TestFormState_Sidebar(t *testing.T) {
	var f FormState

	f.OpenSidebar()
	if !f.SidebarOpen {
		t.Error("OpenSidebar: SidebarOpen = false")
	}
	f.CloseSidebar()
	if f.SidebarOpen {
		t.Error("CloseSidebar: SidebarOpen = true")
	}
	f.ToggleSidebar()
	f.ToggleSidebar()
	f.ToggleSidebar()
	if !f.SidebarOpen {
		t.Error("three toggles: SidebarOpen = false, want true")
	}
}
