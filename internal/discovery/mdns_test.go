package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantID   string
		wantIP   string
		wantPort int
	}{
		{
			name: "robot with IPv4",
			entry: &zeroconf.ServiceEntry{
				HostName: "robot-001.local.",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.40")},
				Text:     []string{"path=/"},
			},
			wantID:   "001",
			wantIP:   "192.168.1.40",
			wantPort: 80,
		},
		{
			name: "robot without trailing dot",
			entry: &zeroconf.ServiceEntry{
				HostName: "robot-lab-arm.local",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.5")},
			},
			wantID:   "lab-arm",
			wantIP:   "10.0.0.5",
			wantPort: 80,
		},
		{
			name: "custom port",
			entry: &zeroconf.ServiceEntry{
				HostName: "robot-002.local",
				Port:     8082,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.41")},
			},
			wantID:   "002",
			wantIP:   "192.168.1.41",
			wantPort: 8082,
		},
		{
			name: "no port defaults to 80",
			entry: &zeroconf.ServiceEntry{
				HostName: "robot-003.local",
				AddrIPv4: []net.IP{net.ParseIP("172.16.0.1")},
			},
			wantID:   "003",
			wantIP:   "172.16.0.1",
			wantPort: 80,
		},
		{
			name: "not a robot",
			entry: &zeroconf.ServiceEntry{
				HostName: "printer.local",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")},
			},
			wantNil: true,
		},
		{
			name: "empty hostname",
			entry: &zeroconf.ServiceEntry{
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")},
			},
			wantNil: true,
		},
		{
			name: "no address",
			entry: &zeroconf.ServiceEntry{
				HostName: "robot-001.local",
				Port:     80,
			},
			wantNil: true,
		},
		{
			name: "IPv6 only",
			entry: &zeroconf.ServiceEntry{
				HostName: "robot-004.local",
				AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
			},
			wantID:   "004",
			wantIP:   "fe80::1",
			wantPort: 80,
		},
		{
			name: "prefers IPv4",
			entry: &zeroconf.ServiceEntry{
				HostName: "robot-005.local",
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.50")},
				AddrIPv6: []net.IP{net.ParseIP("fe80::2")},
			},
			wantID:   "005",
			wantIP:   "192.168.1.50",
			wantPort: 80,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			robot := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if robot != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", robot)
				}
				return
			}
			if robot == nil {
				t.Fatal("parseServiceEntry() = nil, want robot")
			}

			if robot.ID != tt.wantID {
				t.Errorf("robot.ID = %v, want %v", robot.ID, tt.wantID)
			}
			if robot.IP != tt.wantIP {
				t.Errorf("robot.IP = %v, want %v", robot.IP, tt.wantIP)
			}
			if robot.Port != tt.wantPort {
				t.Errorf("robot.Port = %v, want %v", robot.Port, tt.wantPort)
			}
			if robot.Hostname != tt.entry.HostName {
				t.Errorf("robot.Hostname = %v, want %v", robot.Hostname, tt.entry.HostName)
			}
			if time.Since(robot.DiscoveredAt) > time.Second {
				t.Errorf("robot.DiscoveredAt is not recent: %v", robot.DiscoveredAt)
			}
		})
	}
}

func TestScanner_parseServiceEntry_Metadata(t *testing.T) {
	scanner := NewScanner()

	robot := scanner.parseServiceEntry(&zeroconf.ServiceEntry{
		HostName: "robot-001.local",
		AddrIPv4: []net.IP{net.ParseIP("192.168.1.40")},
		Text:     []string{"path=/", "flag", "version=0.3.1", "k=a=b"},
	})
	if robot == nil {
		t.Fatal("parseServiceEntry() = nil, want robot")
	}

	expected := map[string]string{
		"path":    "/",
		"flag":    "",
		"version": "0.3.1",
		"k":       "a=b",
	}
	if len(robot.Metadata) != len(expected) {
		t.Errorf("robot.Metadata has %d entries, want %d", len(robot.Metadata), len(expected))
	}
	for key, want := range expected {
		if got, ok := robot.Metadata[key]; !ok {
			t.Errorf("robot.Metadata missing key %q", key)
		} else if got != want {
			t.Errorf("robot.Metadata[%q] = %q, want %q", key, got, want)
		}
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()
	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

func TestHostnamePattern(t *testing.T) {
	tests := []struct {
		hostname    string
		shouldMatch bool
		id          string
	}{
		{"robot-001.local", true, "001"},
		{"robot-001.local.", true, "001"},
		{"robot-lab-arm.local", true, "lab-arm"},
		{"robot-.local", false, ""},
		{"robot--x.local", false, ""},
		{"Robot-001.local", false, ""},
		{"robot-001", false, ""},
		{"robot_001.local", false, ""},
		{"", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.hostname, func(t *testing.T) {
			matches := hostnamePattern.FindStringSubmatch(tt.hostname)

			if tt.shouldMatch {
				if len(matches) < 2 {
					t.Errorf("hostnamePattern did not match %q", tt.hostname)
				} else if matches[1] != tt.id {
					t.Errorf("hostnamePattern matched %q with id %q, want %q", tt.hostname, matches[1], tt.id)
				}
			} else if matches != nil {
				t.Errorf("hostnamePattern matched %q, want no match", tt.hostname)
			}
		})
	}
}
