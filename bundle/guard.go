package bundle

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Pre-compiled CIDR networks for reserved ranges not covered by net.IP helpers.
var (
	cgnat    *net.IPNet // 100.64.0.0/10 - Carrier-grade NAT
	v6unique *net.IPNet // fc00::/7 - IPv6 unique local
)

func init() {
	var err error

	_, cgnat, err = net.ParseCIDR("100.64.0.0/10")
	if err != nil {
		panic("invalid CGNAT CIDR: " + err.Error())
	}

	_, v6unique, err = net.ParseCIDR("fc00::/7")
	if err != nil {
		panic("invalid IPv6 unique local CIDR: " + err.Error())
	}
}

// ValidateURL rejects anything but HTTPS URLs to public hosts.
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsafeURL, err)
	}

	if parsed.Scheme != "https" {
		return fmt.Errorf("%w: only HTTPS URLs are allowed: %s", ErrUnsafeURL, rawURL)
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return fmt.Errorf("%w: missing host: %s", ErrUnsafeURL, rawURL)
	}
	if host == "localhost" || strings.HasSuffix(host, ".local") || strings.HasSuffix(host, ".internal") {
		return fmt.Errorf("%w: local host %s", ErrUnsafeURL, host)
	}

	if ip := net.ParseIP(host); ip != nil && IsPrivateIP(ip) {
		return fmt.Errorf("%w: private address %s", ErrUnsafeURL, host)
	}
	return nil
}

// IsPrivateIP reports whether ip is loopback, private, link-local or in a
// reserved range. IPv4-mapped IPv6 addresses are checked as IPv4.
func IsPrivateIP(ip net.IP) bool {
	if v4 := ip.To4(); v4 != nil {
		ip = v4
	}
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
		return true
	}
	return cgnat.Contains(ip) || v6unique.Contains(ip)
}
