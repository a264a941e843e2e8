package netutil

import (
	"net/http"
	"net/netip"
	"strings"
	"unicode/utf8"
)

const MaxUserAgentLength = 256

// ClientIP returns the caller's address for logging and rate limiting. It runs
// after chi's RealIP middleware, so RemoteAddr already reflects a trusted
// X-Forwarded-For or X-Real-IP value when one was sent.
func ClientIP(r *http.Request) string {
	ip, _ := NormalizeIP(r.RemoteAddr)
	return ip
}

// NormalizeIP strips an optional port and any zone from raw. ok is false when
// raw is not an IP address, in which case raw is returned trimmed.
func NormalizeIP(raw string) (ip string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if ap, err := netip.ParseAddrPort(raw); err == nil {
		return ap.Addr().WithZone("").String(), true
	}
	host := raw
	if strings.HasPrefix(host, "[") {
		if end := strings.LastIndex(host, "]"); end > 0 {
			host = host[1:end]
		}
	} else if strings.Count(host, ":") == 1 {
		host = host[:strings.IndexByte(host, ':')]
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		return addr.WithZone("").String(), true
	}
	return raw, false
}

// UserAgent returns the request's User-Agent cut to MaxUserAgentLength runes.
func UserAgent(r *http.Request) string {
	ua := r.UserAgent()
	if utf8.RuneCountInString(ua) <= MaxUserAgentLength {
		return ua
	}
	n := 0
	for i := range ua {
		if n == MaxUserAgentLength {
			return ua[:i]
		}
		n++
	}
	return ua
}
