package discovery

import (
	"testing"
)

func TestRobot_String(t *testing.T) {
	robot := &Robot{
		ID:       "001",
		Hostname: "robot-001.local",
		IP:       "192.168.1.40",
		Port:     80,
	}

	expected := "Robot 001 (robot-001.local) at 192.168.1.40:80"
	if robot.String() != expected {
		t.Errorf("Robot.String() = %v, want %v", robot.String(), expected)
	}
}

func TestRobot_URLs(t *testing.T) {
	tests := []struct {
		name     string
		robot    *Robot
		wantBase string
		wantAPI  string
	}{
		{
			name:     "standard HTTP port",
			robot:    &Robot{IP: "192.168.1.40", Port: 80},
			wantBase: "http://192.168.1.40:80",
			wantAPI:  "http://192.168.1.40:80/api",
		},
		{
			name:     "custom port",
			robot:    &Robot{IP: "10.42.0.1", Port: 8080},
			wantBase: "http://10.42.0.1:8080",
			wantAPI:  "http://10.42.0.1:8080/api",
		},
		{
			name:     "IPv6",
			robot:    &Robot{IP: "fe80::1", Port: 80},
			wantBase: "http://[fe80::1]:80",
			wantAPI:  "http://[fe80::1]:80/api",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.robot.BaseURL(); got != tt.wantBase {
				t.Errorf("Robot.BaseURL() = %v, want %v", got, tt.wantBase)
			}
			if got := tt.robot.APIURL(); got != tt.wantAPI {
				t.Errorf("Robot.APIURL() = %v, want %v", got, tt.wantAPI)
			}
		})
	}
}

func TestRobot_GetMetadata(t *testing.T) {
	robot := &Robot{
		Metadata: map[string]string{
			"path":    "/",
			"version": "0.3.1",
		},
	}

	tests := []struct {
		key      string
		expected string
	}{
		{"path", "/"},
		{"version", "0.3.1"},
		{"missing", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := robot.GetMetadata(tt.key); got != tt.expected {
				t.Errorf("Robot.GetMetadata(%v) = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}

func TestRobot_GetMetadata_NilMap(t *testing.T) {
	robot := &Robot{}

	if got := robot.GetMetadata("anything"); got != "" {
		t.Errorf("Robot.GetMetadata() with nil map = %v, want empty string", got)
	}
}
