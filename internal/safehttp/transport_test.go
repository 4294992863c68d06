package safehttp

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTransportRefusesLoopback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request reached loopback server")
	}))
	defer srv.Close()

	client := &http.Client{Transport: NewTransport()}
	resp, err := client.Get(srv.URL)
	if err == nil {
		resp.Body.Close()
		t.Fatal("expected loopback dial to be refused")
	}
	if !strings.Contains(err.Error(), "non-public address") {
		t.Errorf("err = %v, want non-public address refusal", err)
	}
}

func TestPublicIP(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1", false},
		{"10.1.2.3", false},
		{"172.16.0.9", false},
		{"192.168.1.1", false},
		{"169.254.0.5", false},
		{"0.0.0.0", false},
		{"::1", false},
		{"fe80::1", false},
		{"fd00::1", false},
		{"93.184.216.34", true},
		{"2606:2800:220:1:248:1893:25c8:1946", true},
	}
	for _, tt := range tests {
		if got := publicIP(net.ParseIP(tt.addr)); got != tt.want {
			t.Errorf("publicIP(%s) = %v, want %v", tt.addr, got, tt.want)
		}
	}
}
