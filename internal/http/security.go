package http

import (
	"net"
	"net/http"
	"net/netip"
	"slices"
	"strings"
	"sync/atomic"
)

// securityMetrics tracks security-related events.
type securityMetrics struct {
	rateLimitHits      int64
	invalidIPAttempts  int64
	suspiciousRequests int64
}

// forwardingNetworks are the peers whose X-Forwarded-For and X-Real-IP
// headers are believed: loopback and the RFC 1918 ranges.
var forwardingNetworks = []netip.Prefix{
	netip.MustParsePrefix("127.0.0.0/8"),
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
}

func forwardsFor(peer netip.Addr) bool {
	return slices.ContainsFunc(forwardingNetworks, func(p netip.Prefix) bool {
		return p.Contains(peer.Unmap())
	})
}

// extractClientIP returns the address a request is accounted to. Forwarding
// headers count only when the direct peer is a local proxy.
func extractClientIP(r *http.Request) string {
	peer := r.RemoteAddr
	if host, _, err := net.SplitHostPort(peer); err == nil {
		peer = host
	}
	addr, err := netip.ParseAddr(peer)
	if err != nil || !forwardsFor(addr) {
		return peer
	}
	if origin, ok := forwardedOrigin(r.Header); ok {
		return origin
	}
	return peer
}

// forwardedOrigin is the first X-Forwarded-For hop, falling back to
// X-Real-IP, provided it parses as an address.
func forwardedOrigin(h http.Header) (string, bool) {
	candidates := []string{h.Get("X-Real-IP")}
	if xff := h.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		candidates = append([]string{strings.TrimSpace(first)}, candidates...)
	}
	for _, c := range candidates {
		if _, err := netip.ParseAddr(c); err == nil {
			return c, true
		}
	}
	return "", false
}

const (
	maxURLLength     = 2048
	maxForwardedHops = 6
)

var (
	hostilePatterns = []string{
		"../", "..\\", ".env", "wp-admin", "phpmyadmin",
		"admin.php", "config.php", ".git", ".ssh",
		"eval(", "javascript:", "<script", "union select",
		"etc/passwd", "cmd.exe",
	}
	scannerAgents = []string{
		"sqlmap", "nmap", "nikto", "gobuster", "dirb",
		"masscan", "zgrab", "scanner",
	}
	unusualMethods = []string{"TRACE", "TRACK", "DEBUG", "CONNECT"}
)

// requestRule reports whether a request looks hostile in one respect.
type requestRule struct {
	name  string
	match func(*http.Request) bool
}

var requestRules = []requestRule{
	{"hostile path", func(r *http.Request) bool {
		return containsAny(strings.ToLower(r.URL.Path), hostilePatterns)
	}},
	{"hostile query", func(r *http.Request) bool {
		return containsAny(strings.ToLower(r.URL.RawQuery), hostilePatterns)
	}},
	{"scanner agent", func(r *http.Request) bool {
		return containsAny(strings.ToLower(r.UserAgent()), scannerAgents)
	}},
	{"unusual method", func(r *http.Request) bool {
		return slices.Contains(unusualMethods, r.Method)
	}},
	{"oversized url", func(r *http.Request) bool {
		return len(r.URL.String()) > maxURLLength
	}},
	{"long forwarding chain", func(r *http.Request) bool {
		return strings.Count(r.Header.Get("X-Forwarded-For"), ",") >= maxForwardedHops
	}},
}

func containsAny(s string, needles []string) bool {
	return slices.ContainsFunc(needles, func(n string) bool {
		return strings.Contains(s, n)
	})
}

// matchRule returns the name of the first rule the request trips.
func matchRule(r *http.Request) (string, bool) {
	for _, rule := range requestRules {
		if rule.match(r) {
			return rule.name, true
		}
	}
	return "", false
}

// detectSuspiciousRequest counts requests that trip any rule. Flagged
// requests are logged by the caller and still served.
func detectSuspiciousRequest(r *http.Request, metrics *securityMetrics) bool {
	_, hit := matchRule(r)
	if hit && metrics != nil {
		atomic.AddInt64(&metrics.suspiciousRequests, 1)
	}
	return hit
}

// setSecurityHeaders applies the headers every API response carries.
func setSecurityHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
	h.Set("Referrer-Policy", "no-referrer")
	h.Set("Cache-Control", "no-store")
}

// SecurityStats is a point-in-time copy of the security counters.
type SecurityStats struct {
	RateLimitHits      int64
	InvalidIPAttempts  int64
	SuspiciousRequests int64
}

// SecurityStats returns the counters collected since the server started.
func (s *Server) SecurityStats() SecurityStats {
	return SecurityStats{
		RateLimitHits:      atomic.LoadInt64(&s.metrics.rateLimitHits),
		InvalidIPAttempts:  atomic.LoadInt64(&s.metrics.invalidIPAttempts),
		SuspiciousRequests: atomic.LoadInt64(&s.metrics.suspiciousRequests),
	}
}
