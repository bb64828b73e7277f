// ABOUTME: Tests for mDNS discovery
// ABOUTME: Tests answer conversion, TXT path parsing and lookup cancellation
package discovery

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/hashicorp/mdns"
)

func TestNewManager(t *testing.T) {
	mgr := NewManager(Config{
		ServiceName: "Test Backend",
		Port:        8000,
	})
	if mgr == nil {
		t.Fatal("expected manager to be created")
	}
	mgr.Stop()
}

func TestEndpointFromEntry(t *testing.T) {
	tests := []struct {
		name    string
		entry   *mdns.ServiceEntry
		wantURL string
	}{
		{
			name: "ipv4 with path",
			entry: &mdns.ServiceEntry{
				Name:       "Backend._quicksupport._tcp.local.",
				AddrV4:     net.ParseIP("192.168.1.20"),
				Port:       8000,
				InfoFields: []string{"path=/v1/audio"},
			},
			wantURL: "http://192.168.1.20:8000/v1/audio",
		},
		{
			name: "default path",
			entry: &mdns.ServiceEntry{
				Name:   "Backend._quicksupport._tcp.local.",
				AddrV4: net.ParseIP("10.0.0.5"),
				Port:   9000,
			},
			wantURL: "http://10.0.0.5:9000/audio",
		},
		{
			name: "ipv6 only",
			entry: &mdns.ServiceEntry{
				Name:   "Backend._quicksupport._tcp.local.",
				AddrV6: net.ParseIP("fe80::1"),
				Port:   8000,
			},
			wantURL: "http://[fe80::1]:8000/audio",
		},
		{
			name: "host name fallback",
			entry: &mdns.ServiceEntry{
				Host: "backend.local.",
				Port: 8000,
			},
			wantURL: "http://backend.local:8000/audio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep := endpointFromEntry(tt.entry)
			if ep == nil {
				t.Fatal("expected endpoint")
			}
			if got := ep.URL(); got != tt.wantURL {
				t.Errorf("expected %s, got %s", tt.wantURL, got)
			}
		})
	}
}

func TestEndpointFromEntrySkips(t *testing.T) {
	tests := []struct {
		name  string
		entry *mdns.ServiceEntry
	}{
		{"nil", nil},
		{"no port", &mdns.ServiceEntry{AddrV4: net.ParseIP("10.0.0.1")}},
		{"other service", &mdns.ServiceEntry{Name: "Printer._ipp._tcp.local.", AddrV4: net.ParseIP("10.0.0.1"), Port: 631}},
		{"no address", &mdns.ServiceEntry{Name: "X._quicksupport._tcp.local.", Port: 8000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ep := endpointFromEntry(tt.entry); ep != nil {
				t.Errorf("expected entry to be skipped, got %+v", ep)
			}
		})
	}
}

func TestPathFromTXT(t *testing.T) {
	tests := []struct {
		fields []string
		want   string
	}{
		{nil, "/audio"},
		{[]string{"version=1"}, "/audio"},
		{[]string{"path="}, "/audio"},
		{[]string{"path=upload"}, "/upload"},
		{[]string{"version=1", "path=/v2/audio"}, "/v2/audio"},
	}

	for _, tt := range tests {
		if got := pathFromTXT(tt.fields); got != tt.want {
			t.Errorf("pathFromTXT(%v) = %q, want %q", tt.fields, got, tt.want)
		}
	}
}

func TestLookupCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ep, err := Lookup(ctx, time.Second)
	if err == nil {
		t.Fatalf("expected error from canceled lookup, got %+v", ep)
	}
}
