// ABOUTME: mDNS service discovery for the remote control surface
// ABOUTME: Advertises a running instance and finds others on the LAN
package discovery

import (
	"context"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/hashicorp/mdns"

	"github.com/hearcheck/hearcheck-go/internal/version"
)

// ServiceType is the advertised mDNS service
const ServiceType = "_hearcheck._tcp"

// Config holds discovery configuration
type Config struct {
	ServiceName string
	Port        int
	Path        string
}

// Manager handles mDNS advertisement
type Manager struct {
	config Config
	ctx    context.Context
	cancel context.CancelFunc
}

// Instance describes a discovered instance
type Instance struct {
	Name string
	Host string
	Port int
	Path string
}

// URL returns the websocket URL of the instance
func (i Instance) URL() string {
	return fmt.Sprintf("ws://%s%s", net.JoinHostPort(i.Host, fmt.Sprint(i.Port)), i.Path)
}

// NewManager creates a discovery manager
func NewManager(config Config) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}
}

// TXT returns the TXT records advertised for the instance
func (m *Manager) TXT() []string {
	return []string{
		"path=" + m.config.Path,
		"version=" + version.Version,
	}
}

// Advertise advertises this instance via mDNS until Stop
func (m *Manager) Advertise() error {
	if m.config.Port <= 0 {
		return fmt.Errorf("invalid port: %d", m.config.Port)
	}

	ips, err := getLocalIPs()
	if err != nil {
		return fmt.Errorf("failed to get local IPs: %w", err)
	}

	service, err := mdns.NewMDNSService(
		m.config.ServiceName,
		ServiceType,
		"",
		"",
		m.config.Port,
		ips,
		m.TXT(),
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("failed to create mdns server: %w", err)
	}

	log.Printf("Advertising mDNS service: %s on port %d (type: %s)", m.config.ServiceName, m.config.Port, ServiceType)

	go func() {
		<-m.ctx.Done()
		server.Shutdown()
	}()

	return nil
}

// Stop stops advertising
func (m *Manager) Stop() {
	m.cancel()
}

// Discover queries the LAN for instances for up to timeout
func Discover(ctx context.Context, timeout time.Duration) ([]Instance, error) {
	entries := make(chan *mdns.ServiceEntry, 16)
	done := make(chan []Instance, 1)

	go func() {
		var found []Instance
		for entry := range entries {
			if inst, ok := instanceFromEntry(entry); ok {
				log.Printf("Discovered instance: %s at %s:%d", inst.Name, inst.Host, inst.Port)
				found = append(found, inst)
			}
		}
		done <- found
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true

	errChan := make(chan error, 1)
	go func() {
		errChan <- mdns.Query(params)
		close(entries)
	}()

	select {
	case err := <-errChan:
		found := <-done
		if err != nil {
			return found, fmt.Errorf("mdns query failed: %w", err)
		}
		return found, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func instanceFromEntry(entry *mdns.ServiceEntry) (Instance, bool) {
	if entry == nil || entry.AddrV4 == nil {
		return Instance{}, false
	}

	inst := Instance{
		Name: strings.TrimSuffix(entry.Name, "."+ServiceType+".local."),
		Host: entry.AddrV4.String(),
		Port: entry.Port,
	}
	for _, field := range entry.InfoFields {
		if path, ok := strings.CutPrefix(field, "path="); ok {
			inst.Path = path
		}
	}
	return inst, true
}

// getLocalIPs returns local IP addresses
func getLocalIPs() ([]net.IP, error) {
	var ips []net.IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					ips = append(ips, ipnet.IP)
				}
			}
		}
	}

	return ips, nil
}
