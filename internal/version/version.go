// ABOUTME: Product and version constants
// ABOUTME: Reported in logs, the remote handshake and mDNS TXT records
package version

import "fmt"

const (
	Product      = "Hearcheck"
	Manufacturer = "Hearcheck"
	Version      = "0.3.0"

	// ProtocolVersion is the remote control message version
	ProtocolVersion = 1
)

// String returns "Product Version"
func String() string {
	return fmt.Sprintf("%s %s", Product, Version)
}
