package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Robot represents a robot found on the network
type Robot struct {
	// ID is the robot identifier taken from its hostname (e.g., "001")
	ID string

	// Hostname is the mDNS hostname (e.g., "robot-001.local")
	Hostname string

	// IP is the robot's address, IPv4 when available
	IP string

	// Port is the HTTP port the console proxy listens on (typically 80)
	Port int

	// Metadata contains the mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the robot was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the robot
func (r *Robot) String() string {
	return fmt.Sprintf("Robot %s (%s) at %s", r.ID, r.Hostname, r.hostPort())
}

// BaseURL returns the HTTP base URL for the robot
func (r *Robot) BaseURL() string {
	return "http://" + r.hostPort()
}

// APIURL returns the base URL of the robot API behind the same-origin proxy
func (r *Robot) APIURL() string {
	return r.BaseURL() + "/api"
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (r *Robot) GetMetadata(key string) string {
	if r.Metadata == nil {
		return ""
	}
	return r.Metadata[key]
}

func (r *Robot) hostPort() string {
	return net.JoinHostPort(r.IP, strconv.Itoa(r.Port))
}
