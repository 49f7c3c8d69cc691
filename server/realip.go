package server

import (
	"errors"
	"net"
	"net/http"
	"strings"
)

var privateCIDRs []*net.IPNet

func init() {
	for _, block := range []string{
		"127.0.0.1/8",
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"169.254.0.0/16",
		"100.64.0.0/10",
		"::1/128",
		"fc00::/7",
		"fe80::/10",
	} {
		_, cidr, _ := net.ParseCIDR(block)
		privateCIDRs = append(privateCIDRs, cidr)
	}
}

// IsPrivateIP reports whether address is loopback, private, link local or CGNAT
func IsPrivateIP(address string) (bool, error) {
	ip := net.ParseIP(address)
	if ip == nil {
		return false, errors.New("address is not valid")
	}
	for _, cidr := range privateCIDRs {
		if cidr.Contains(ip) {
			return true, nil
		}
	}
	return false, nil
}

// RealIP client IP for the access log: the first public X-Forwarded-For
// address, else X-Real-Ip, else the remote address
func RealIP(r *http.Request) string {
	xRealIP := r.Header.Get("X-Real-Ip")
	xForwardedFor := r.Header.Get("X-Forwarded-For")
	if xRealIP == "" && xForwardedFor == "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			return host
		}
		return r.RemoteAddr
	}
	for _, address := range strings.Split(xForwardedFor, ",") {
		address = strings.TrimSpace(address)
		if private, err := IsPrivateIP(address); err == nil && !private {
			return address
		}
	}
	return xRealIP
}
