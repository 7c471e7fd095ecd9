// Package discovery finds robots on the local network over mDNS.
//
// Robots advertise their console as an "_http._tcp" service under a
// hostname of the form robot-<id>.local (e.g. robot-001.local). The scanner
// browses for that service, keeps only entries whose hostname matches, and
// returns one Robot per hostname.
//
// # Usage Example
//
//	robots, err := discovery.ScanForRobots(ctx, 5*time.Second)
//	if err != nil {
//	    return err
//	}
//	for _, r := range robots {
//	    fmt.Printf("%s -> %s\n", r.Hostname, r.APIURL())
//	}
//
// # Network Requirements
//
//   - Multicast must be allowed on the interface (UDP port 5353)
//   - The robot must be on the same network segment; on the robot's own
//     hotspot discovery is unnecessary, the API is at 10.42.0.1
package discovery
