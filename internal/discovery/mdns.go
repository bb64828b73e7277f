// ABOUTME: mDNS discovery of the voice endpoint
// ABOUTME: Browses for the backend service and advertises development backends
package discovery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

const (
	// ServiceType is the DNS-SD type of the voice backend
	ServiceType = "_quicksupport._tcp"
	// DefaultPath is used when the TXT record carries no path
	DefaultPath = "/audio"
)

// ErrNotFound is returned when no backend answered before the timeout
var ErrNotFound = errors.New("no endpoint discovered")

// Config holds advertisement configuration
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

// Endpoint describes a discovered backend
type Endpoint struct {
	Name string
	Host string
	Port int
	Path string
}

// URL returns the upload URL for the endpoint
func (e *Endpoint) URL() string {
	return fmt.Sprintf("http://%s%s", net.JoinHostPort(e.Host, strconv.Itoa(e.Port)), e.Path)
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

// Advertise announces a backend via mDNS until Stop is called
func (m *Manager) Advertise() error {
	ips, err := getLocalIPs()
	if err != nil {
		return fmt.Errorf("failed to get local IPs: %w", err)
	}

	path := m.config.Path
	if path == "" {
		path = DefaultPath
	}

	service, err := mdns.NewMDNSService(
		m.config.ServiceName,
		ServiceType,
		"",
		"",
		m.config.Port,
		ips,
		[]string{"path=" + path},
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("failed to create mdns server: %w", err)
	}

	log.Printf("Advertising mDNS service: %s on port %d (type: %s, path: %s)",
		m.config.ServiceName, m.config.Port, ServiceType, path)

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

// Lookup browses for the backend and returns the first usable answer
func Lookup(ctx context.Context, timeout time.Duration) (*Endpoint, error) {
	entries := make(chan *mdns.ServiceEntry, 10)
	queryErr := make(chan error, 1)

	params := mdns.DefaultParams(ServiceType)
	params.Timeout = timeout
	params.Entries = entries

	go func() {
		queryErr <- mdns.Query(params)
		close(entries)
	}()
	defer func() {
		go func() {
			for range entries {
			}
		}()
	}()

	log.Printf("Browsing mDNS for %s (timeout %s)", ServiceType, timeout)
	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				if err := <-queryErr; err != nil {
					return nil, fmt.Errorf("mdns query failed: %w", err)
				}
				return nil, ErrNotFound
			}
			if ep := endpointFromEntry(entry); ep != nil {
				log.Printf("Discovered endpoint: %s at %s", ep.Name, ep.URL())
				return ep, nil
			}

		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// endpointFromEntry converts an answer, skipping other services and
// entries without an address
func endpointFromEntry(entry *mdns.ServiceEntry) *Endpoint {
	if entry == nil || entry.Port == 0 {
		return nil
	}
	if entry.Name != "" && !strings.Contains(entry.Name, ServiceType) {
		return nil
	}

	var host string
	switch {
	case entry.AddrV4 != nil:
		host = entry.AddrV4.String()
	case entry.AddrV6 != nil:
		host = entry.AddrV6.String()
	default:
		host = strings.TrimSuffix(entry.Host, ".")
	}
	if host == "" {
		return nil
	}

	return &Endpoint{
		Name: entry.Name,
		Host: host,
		Port: entry.Port,
		Path: pathFromTXT(entry.InfoFields),
	}
}

// pathFromTXT returns the path= record, normalized to start with a slash
func pathFromTXT(fields []string) string {
	for _, field := range fields {
		if value, ok := strings.CutPrefix(field, "path="); ok && value != "" {
			if !strings.HasPrefix(value, "/") {
				value = "/" + value
			}
			return value
		}
	}
	return DefaultPath
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
