package zammad

import (
	"net"
	"net/url"
	"strings"
)

// apiPathSuffix is the version segment every Zammad base URL must end
// with; its presence confirms the operator pointed us at the REST API
// rather than an arbitrary host.
const apiPathSuffix = "/api/v1"

// URLPolicy validates every URL the client is about to fetch. The base
// URL is checked once at startup; per-call targets such as attachment
// download URLs are re-checked, because a URL is not trustworthy merely
// for having arrived in an authenticated server response.
type URLPolicy struct {
	// AllowInternal permits loopback, link-local, and private-range
	// hosts. Off by default; intended for test and staging deployments.
	AllowInternal bool
}

// ValidateBase checks the configured base URL: scheme allow-list,
// host policy, and the required API path suffix.
func (p URLPolicy) ValidateBase(raw string) error {
	u, err := p.check(raw)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(strings.TrimSuffix(u.Path, "/"), apiPathSuffix) {
		return &PolicyError{Target: raw, Reason: "base URL must end with " + apiPathSuffix}
	}
	return nil
}

// ValidateTarget checks a per-call URL against the scheme and host
// policy. No path requirement: targets legitimately point at
// sub-resources like attachment downloads.
func (p URLPolicy) ValidateTarget(raw string) error {
	_, err := p.check(raw)
	return err
}

func (p URLPolicy) check(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &PolicyError{Target: raw, Reason: "not a valid URL"}
	}
	switch u.Scheme {
	case "https", "http":
	default:
		return nil, &PolicyError{Target: raw, Reason: "scheme must be http or https"}
	}
	host := u.Hostname()
	if host == "" {
		return nil, &PolicyError{Target: raw, Reason: "missing host"}
	}
	if !p.AllowInternal && hostIsInternal(host) {
		return nil, &PolicyError{Target: raw, Reason: "host resolves to an internal address; set the allow-internal flag if this deployment is intentional"}
	}
	return u, nil
}

// hostIsInternal reports whether the host names an address we refuse to
// fetch by default. Literal IPs are classified directly; for hostnames
// only the well-known local names are caught here, since resolving
// arbitrary names is the dialer's job.
func hostIsInternal(host string) bool {
	lower := strings.ToLower(host)
	if lower == "localhost" || strings.HasSuffix(lower, ".localhost") || strings.HasSuffix(lower, ".local") || strings.HasSuffix(lower, ".internal") {
		return true
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsPrivate() ||
		ip.IsUnspecified()
}
