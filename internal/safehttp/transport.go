// Package safehttp guards outbound HTTP against requests that land on
// internal networks. The research pipeline fetches whatever URLs a web
// search returns, so its transport refuses loopback, private, and
// link-local destinations.
package safehttp

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

const dialTimeout = 5 * time.Second

// NewTransport returns an http.Transport whose dialer only completes
// connections to public addresses. The check runs against the dialed
// remote address, so it covers DNS answers as well as literal IPs.
func NewTransport() *http.Transport {
	return &http.Transport{DialContext: dialPublic}
}

func dialPublic(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	host, _, _ := net.SplitHostPort(conn.RemoteAddr().String())
	ip := net.ParseIP(host)
	if ip == nil {
		conn.Close()
		return nil, fmt.Errorf("cannot determine remote address for %q", addr)
	}
	if !publicIP(ip) {
		conn.Close()
		return nil, fmt.Errorf("refusing connection to non-public address %s", ip)
	}
	return conn, nil
}

// publicIP reports whether ip is routable on the public internet.
func publicIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() {
		return false
	}
	return !ip.IsLinkLocalUnicast() && !ip.IsLinkLocalMulticast()
}
