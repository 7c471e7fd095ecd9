package discovery

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/polyflowrobotics/robot-console/internal/logging"
)

const (
	// ServiceType is the mDNS service type robots advertise their console under
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for robot discovery
	DefaultScanTimeout = 10 * time.Second

	// DefaultPort is the default HTTP port of the robot's console proxy
	DefaultPort = 80
)

// hostnamePattern matches robot hostnames (e.g., "robot-001.local")
var hostnamePattern = regexp.MustCompile(`^robot-([A-Za-z0-9][A-Za-z0-9-]*)\.local\.?$`)

// Scanner handles mDNS robot discovery
type Scanner struct {
	// Timeout is the maximum time to wait for robot discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForRobots discovers all robots on the local network
func (s *Scanner) ScanForRobots() ([]*Robot, error) {
	return s.ScanForRobotsWithContext(context.Background())
}

// ScanForRobotsWithContext discovers robots until the timeout or ctx ends
func (s *Scanner) ScanForRobotsWithContext(ctx context.Context) ([]*Robot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	var (
		mu     sync.Mutex
		robots = make([]*Robot, 0)
		seen   = make(map[string]bool)
		done   = make(chan struct{})
	)
	go func() {
		defer close(done)
		for entry := range entries {
			robot := s.parseServiceEntry(entry)
			if robot == nil {
				continue
			}
			mu.Lock()
			if !seen[robot.Hostname] {
				seen[robot.Hostname] = true
				robots = append(robots, robot)
				logging.Debug("Discovered robot",
					zap.String("id", robot.ID),
					zap.String("ip", robot.IP),
					zap.Int("port", robot.Port),
				)
			}
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	// zeroconf closes entries once the browse context ends
	select {
	case <-done:
	case <-time.After(time.Second):
	}

	mu.Lock()
	defer mu.Unlock()
	return append([]*Robot(nil), robots...), nil
}

// WaitForRobot waits for a specific robot by ID
func (s *Scanner) WaitForRobot(id string) (*Robot, error) {
	return s.WaitForRobotWithContext(context.Background(), id)
}

// WaitForRobotWithContext waits for a specific robot with a custom context.
// id may be given with or without the "robot-" prefix.
func (s *Scanner) WaitForRobotWithContext(ctx context.Context, id string) (*Robot, error) {
	id = strings.TrimPrefix(id, "robot-")

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	robotChan := make(chan *Robot, 1)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			robot := s.parseServiceEntry(entry)
			if robot != nil && robot.ID == id {
				select {
				case robotChan <- robot:
				default:
				}
				cancel()
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case robot := <-robotChan:
		return robot, nil
	case <-ctx.Done():
		select {
		case robot := <-robotChan:
			return robot, nil
		default:
		}
		return nil, fmt.Errorf("robot %s not found within %s", id, s.Timeout)
	}
}

// parseServiceEntry converts a zeroconf service entry to a Robot.
// Returns nil if the entry is not a robot.
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Robot {
	hostname := entry.HostName
	if hostname == "" {
		return nil
	}

	matches := hostnamePattern.FindStringSubmatch(hostname)
	if len(matches) < 2 {
		return nil
	}

	// Prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// TXT records are "key=value"; a bare key maps to ""
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	return &Robot{
		ID:           matches[1],
		Hostname:     hostname,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// ScanForRobots is a convenience function to scan with a custom timeout
func ScanForRobots(ctx context.Context, timeout time.Duration) ([]*Robot, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForRobotsWithContext(ctx)
}
