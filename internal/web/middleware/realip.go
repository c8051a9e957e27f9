package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// TrustedRealIP rewrites r.RemoteAddr to the client address asserted in
// X-Real-IP or X-Forwarded-For, but only when the connection itself comes
// from one of the configured proxy networks. Rate limiting and request
// logging both read RemoteAddr, so forwarding headers sent by anything
// other than our own proxies must stay inert.
func TrustedRealIP(proxies []string) func(http.Handler) http.Handler {
	nets := parseProxyNets(proxies)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if fromTrustedProxy(r.RemoteAddr, nets) {
				if ip := forwardedClient(r); ip != nil {
					r.RemoteAddr = ip.String()
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// parseProxyNets parses each configured entry as a CIDR, falling back to a
// bare host address. Bad entries are logged and skipped rather than failing
// startup.
func parseProxyNets(entries []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if _, network, err := net.ParseCIDR(entry); err == nil {
			nets = append(nets, network)
			continue
		}
		if n := hostNet(entry); n != nil {
			nets = append(nets, n)
			continue
		}
		slog.Warn("ignoring invalid trusted proxy entry", "entry", entry)
	}
	return nets
}

// hostNet widens a bare address into a single-host network.
func hostNet(addr string) *net.IPNet {
	ip := net.ParseIP(addr)
	if ip == nil {
		return nil
	}
	bits := 128
	if ip.To4() != nil {
		bits = 32
	}
	return &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}
}

// forwardedClient returns the client address the proxy asserted, or nil when
// neither header carries a parseable IP. X-Real-IP wins; otherwise the first
// hop of the X-Forwarded-For chain is the original client.
func forwardedClient(r *http.Request) net.IP {
	if v := strings.TrimSpace(r.Header.Get("X-Real-IP")); v != "" {
		if ip := net.ParseIP(v); ip != nil {
			return ip
		}
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return net.ParseIP(strings.TrimSpace(first))
	}
	return nil
}

// fromTrustedProxy reports whether the connection source falls inside any
// trusted proxy network.
func fromTrustedProxy(remoteAddr string, nets []*net.IPNet) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
